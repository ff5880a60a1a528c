package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// If EOF occurs after some input was read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a passphrase from the terminal
// without echo. The caller should wipe the returned slice.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

var errBadAmount = errors.New(`amount must be whole lamports ("1500") or SOL ("1.5sol")`)

// parseAmount reads an amount in lamports, or in SOL with a "sol" suffix.
func parseAmount(s string) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if sol, ok := strings.CutSuffix(s, "sol"); ok {
		r, ok := new(big.Rat).SetString(strings.TrimSpace(sol))
		if !ok || r.Sign() < 0 {
			return 0, errBadAmount
		}
		r.Mul(r, new(big.Rat).SetUint64(common.LamportsPerSOL))
		if !r.IsInt() || !r.Num().IsUint64() {
			return 0, errBadAmount
		}
		return r.Num().Uint64(), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errBadAmount
	}
	return v, nil
}

// formatLamports renders v as lamports with the SOL equivalent.
func formatLamports(v uint64) string {
	whole := v / common.LamportsPerSOL
	frac := v % common.LamportsPerSOL
	return fmt.Sprintf("%d lamports (%d.%09d SOL)", v, whole, frac)
}
