// cell-arena-server starts an SSH server where every connection gets its
// own arena. Build:
//
//	go build -o cell-arena-server ./cmd/server
//
// Usage:
//
//	./cell-arena-server [--port 2222] [--key server_host_key] [--tuning arena.yaml] [--db arena.db]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"unicode"

	"cell-arena/internal/game"
	internalssh "cell-arena/internal/ssh"
	"cell-arena/internal/store"
	"cell-arena/internal/tuning"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

// maxNameBytes bounds the SSH user name shown on a player's cells.
const maxNameBytes = 16

// allowedTerms lists the TERM values clients may select. Anything else
// falls back to internalssh.DefaultTerm.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	tuningFile := flag.String("tuning", "", "Path to a YAML tuning file (defaults if empty)")
	dbPath := flag.String("db", "", "Path to the score database (default under $XDG_DATA_HOME)")
	players := flag.Int("players", 1, "Players per connection: 1, 2, or 0 to choose on connect")
	maxSessions := flag.Int("max-sessions", 32, "Maximum concurrent connections")
	flag.Parse()

	t, err := tuning.Load(*tuningFile)
	if err != nil {
		log.Fatalf("load tuning: %v", err)
	}
	if *players < 0 || *players > 2 {
		log.Fatalf("--players must be 0, 1 or 2, got %d", *players)
	}

	st := openStore(*dbPath)
	if st != nil {
		defer st.Close()
	}

	signer := loadOrCreateHostKey(*keyFile)
	h := &handler{
		opts:   game.Options{Players: *players, Tuning: t, Store: st},
		logger: slog.Default(),
		slots:  make(chan struct{}, max(*maxSessions, 1)),
	}

	srv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication. Add gossh.PublicKeyAuth or
		// gossh.PasswordAuth options for real auth.
		HostSigners: []gossh.Signer{signer},
	}

	log.Printf("cell-arena SSH server listening on :%d", *port)
	log.Printf("Connect with:  ssh -t -p %d -o StrictHostKeyChecking=no localhost", *port)
	log.Fatal(srv.ListenAndServe())
}

// openStore opens the score database. A failure only disables scores.
func openStore(path string) *store.Store {
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			log.Printf("score database disabled: %v", err)
			return nil
		}
		path = p
	}
	st, err := store.Open(path)
	if err != nil {
		log.Printf("score database disabled: %v", err)
		return nil
	}
	return st
}

// handler runs one arena per SSH connection.
type handler struct {
	opts   game.Options
	logger *slog.Logger
	slots  chan struct{}
	nextID atomic.Uint64
}

// handleSession is the gliderlabs SSH handler for one connection. It blocks
// for the duration of the game so the SSH session stays open.
func (h *handler) handleSession(s gossh.Session) {
	if _, _, hasPTY := s.Pty(); !hasPTY {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	select {
	case h.slots <- struct{}{}:
		defer func() { <-h.slots }()
	default:
		fmt.Fprintln(s, "The server is full. Try again later.")
		return
	}

	name := sanitizeName(s.User())
	term := internalssh.Term(s)
	if !allowedTerms[term] {
		term = internalssh.DefaultTerm
	}
	screen, err := internalssh.NewScreen(s, term)
	if err != nil {
		fmt.Fprintf(s, "%v\n", err)
		return
	}

	id := h.nextID.Add(1)
	logger := h.logger.With("session", id, "user", name, "remote", s.RemoteAddr().String())
	logger.Info("session started", "term", term)

	opts := h.opts
	opts.Name = name
	opts.Logger = logger
	game.NewWithScreen(screen, opts).Run()

	logger.Info("session ended")
}

// sanitizeName strips control characters from an SSH user name and cuts it
// to maxNameBytes without splitting a rune.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsControl(r) {
			continue
		}
		if b.Len()+len(string(r)) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Printf("Loaded host key from %s", path)
			return signer
		}
	}

	log.Printf("Generating new ed25519 host key at %s", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("generate host key: %v", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		log.Fatalf("create signer: %v", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "cell-arena server"); err == nil {
		_ = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0600)
	}
	return signer
}
