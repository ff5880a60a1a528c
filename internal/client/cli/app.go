package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/client/client"
	"github.com/mcamera/school-of-solana-season-8/internal/client/config"
	"github.com/mcamera/school-of-solana-season-8/internal/client/services"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config  *config.Config
	wallet  services.WalletService
	funding services.FundingService
	db      *sql.DB

	mu       sync.Mutex
	identity identity.Identity
	keyName  string
	mode     Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the wallet database under c.DataDir and dials the server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DataDir)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewFundingClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, services.NewWalletService(db), services.NewFundingService(apiClient, db), db), nil
}

func newApp(c *config.Config, w services.WalletService, f services.FundingService, db *sql.DB) *App {
	return &App{
		config:  c,
		wallet:  w,
		funding: f,
		db:      db,
		mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.identity.IsZero()
}

func (a *App) self() (identity.Identity, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity, a.keyName
}

func (a *App) getStatus() string {
	_, name := a.self()
	s := ""
	if name != "" {
		s = name + " "
	}
	s += string(a.Mode())
	return fmt.Sprintf("(%s)", s)
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Println("Welcome to fundingme wallet (type 'help' for commands)")
	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) close() {
	if err := a.funding.Close(); err != nil {
		log.Printf("closing client: %v", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("closing database: %v", err)
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.funding.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.setMode(ModeDisabled)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
