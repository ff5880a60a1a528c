package api

// Identities and addresses travel as base58 strings; amounts in lamports.

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Identity string `json:"identity"`
	// SignedAt is the Unix time included in the signed login message.
	SignedAt  int64  `json:"signed_at"`
	Signature []byte `json:"signature"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type AirdropRequest struct {
	Amount uint64 `json:"amount"`
}

type AirdropResponse struct {
	Balance uint64 `json:"balance"`
}

type BalanceRequest struct {
	Address string `json:"address"`
}

type BalanceResponse struct {
	Lamports uint64 `json:"lamports"`
}

type CreateProjectRequest struct {
	Name            string `json:"name"`
	FinancialTarget uint64 `json:"financial_target"`
}

type DonateRequest struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// ProjectRequest names a project by its owner.
type ProjectRequest struct {
	Owner string `json:"owner"`
}

type Donor struct {
	Identity string `json:"identity"`
	Amount   uint64 `json:"amount"`
}

type Project struct {
	Address         string  `json:"address"`
	Owner           string  `json:"owner"`
	Name            string  `json:"name"`
	FinancialTarget uint64  `json:"financial_target"`
	Balance         uint64  `json:"balance"`
	Status          string  `json:"status"`
	Donors          []Donor `json:"donors"`
	Bump            uint8   `json:"bump"`
}

type ProjectResponse struct {
	Project *Project `json:"project"`
}

func (r *ProjectResponse) GetProject() *Project {
	if r == nil {
		return nil
	}
	return r.Project
}

type RefundResponse struct {
	Amount uint64 `json:"amount"`
}

type DonatorCountResponse struct {
	Count uint32 `json:"count"`
}

// PayoutResponse reports what a destroyed project paid its owner.
type PayoutResponse struct {
	Amount uint64 `json:"amount"`
}
