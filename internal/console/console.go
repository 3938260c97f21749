// Package console is the interactive page around the activity list: it owns
// the displayed activities, their refresh, and the sign-in commands.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"example.com/activityconsole/internal/auth"
	"example.com/activityconsole/internal/domain"
	"example.com/activityconsole/internal/events"
	"example.com/activityconsole/internal/view"
)

const usage = `commands:
  register <username> <password>
  login <username> <password>
  logout
  whoami
  list
  create <name>
  delete <id>
  help
  quit
`

// ActivityAPI is the subset of the activity client used by the page.
type ActivityAPI interface {
	List(ctx context.Context) []domain.Activity
	Create(ctx context.Context, token string, activity domain.Activity) error
	Delete(ctx context.Context, token string, id domain.ActivityID) error
}

// Option configures optional behaviour for the Console.
type Option func(*Console)

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// Console reads commands line by line and writes the page to out.
type Console struct {
	api    ActivityAPI
	out    io.Writer
	logger *log.Logger
}

// New builds a Console.
func New(api ActivityAPI, out io.Writer, opts ...Option) *Console {
	c := &Console{
		api:    api,
		out:    out,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type page struct {
	*Console
	store *auth.Store
	list  *view.ActivityList
}

// Run serves commands from in until EOF, quit, or ctx is done. The session
// store must have been attached to ctx with auth.WithStore.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	store, err := auth.FromContext(ctx)
	if err != nil {
		return err
	}

	p := &page{Console: c, store: store}
	p.list = view.NewActivityList(store, c.api, func(ctx context.Context) error {
		p.syncActivities(ctx)
		return nil
	})

	unsubscribe := store.Subscribe(p.sessionChanged)
	defer unsubscribe()

	p.syncActivities(ctx)
	p.render()

	done := make(chan struct{})
	defer close(done)
	lines, scanErr := readLines(in, done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if !p.handle(ctx, line) {
				return nil
			}
		}
	}
}

// readLines scans in on its own goroutine so that a blocked read cannot
// hold up cancellation. The error channel receives the scanner result once
// lines is closed at end of input.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()
	return lines, scanErr
}

// handle runs one command line and reports whether to keep reading.
func (p *page) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "register", "login":
		if len(args) != 2 {
			p.printf("usage: %s <username> <password>\n", command)
			return true
		}
		creds := domain.Credentials{Username: args[0], Password: args[1]}
		var err error
		if command == "register" {
			err = p.store.Register(ctx, creds)
		} else {
			err = p.store.Login(ctx, creds)
		}
		if err != nil {
			p.printf("error: %s\n", err)
		}
	case "logout":
		p.store.Logout()
	case "whoami":
		p.whoami()
	case "list":
		p.syncActivities(ctx)
		p.render()
	case "create":
		if len(args) == 0 {
			p.printf("usage: create <name>\n")
			return true
		}
		activity := domain.Activity{Name: strings.Join(args, " ")}
		if err := p.api.Create(ctx, p.store.Token(), activity); err != nil {
			p.printf("error: %s\n", err)
			return true
		}
		p.syncActivities(ctx)
		p.render()
	case "delete":
		if len(args) != 1 {
			p.printf("usage: delete <id>\n")
			return true
		}
		p.list.Delete(ctx, domain.ActivityID(args[0]))
		p.render()
	case "help":
		p.printf("%s", usage)
	case "quit", "exit":
		return false
	default:
		p.printf("unknown command %q\n%s", command, usage)
	}
	return true
}

// syncActivities re-fetches the list. Fetch failures surface as an empty list.
func (p *page) syncActivities(ctx context.Context) {
	p.list.SetActivities(p.api.List(ctx))
}

func (p *page) sessionChanged(event events.SessionChanged) {
	switch event.Kind {
	case events.SessionRegistered:
		p.printf("registered and signed in\n")
	case events.SessionLoggedIn:
		p.printf("signed in\n")
	case events.SessionLoggedOut:
		p.printf("signed out\n")
	}
	p.render()
}

func (p *page) whoami() {
	token := p.store.Token()
	if token == "" {
		p.printf("not signed in\n")
		return
	}

	claims, err := auth.Inspect(token)
	if err != nil {
		p.printf("signed in (opaque token)\n")
		return
	}
	p.printf("signed in as %s", claims.Subject)
	if len(claims.Scopes) > 0 {
		p.printf(" (%s)", strings.Join(claims.Scopes, " "))
	}
	if !claims.ExpiresAt.IsZero() {
		p.printf(", token expires %s", claims.ExpiresAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	p.printf("\n")
}

func (p *page) render() {
	if err := p.list.Render(p.out); err != nil {
		p.logger.Printf("render: %v", err)
	}
}

func (p *page) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.logger.Printf("write: %v", err)
	}
}
