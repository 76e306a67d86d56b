// Package diaryctl is an administrative command line over a diary store
// file. It talks to the store directly, so the server should not be running
// against the same file.
package diaryctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/cryptox"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/services"
	"github.com/dmitrijs2005/diary/internal/server/storage"
	"golang.org/x/term"
)

const usage = `usage: diaryctl [-d path] <command> [args]

commands:
  adduser <username>   create an account, prompting for the password
  profile <username>   print the public profile as JSON
  info                 print the store bootstrap record as JSON`

// CLI runs one command per Run call.
type CLI struct {
	in    io.Reader
	lines *bufio.Reader
	out   io.Writer

	// readPassword prompts for a secret. It reads without echo when in is a
	// terminal.
	readPassword func(prompt string) (string, error)
}

func New(in io.Reader, out io.Writer) *CLI {
	c := &CLI{in: in, lines: bufio.NewReader(in), out: out}
	c.readPassword = c.promptPassword
	return c
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diaryctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dbPath := fs.String("d", "diary.db", "path to the SQLite store file")
	alg := fs.String("k", string(cryptox.Argon2id), "password hash algorithm for a new store")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errors.New(usage)
	}

	store, err := storage.Open(ctx, *dbPath, logging.Nop())
	if err != nil {
		return err
	}
	defer store.Close()

	info, hasher, err := services.Bootstrap(ctx, store, cryptox.Algorithm(*alg), logging.Nop())
	if err != nil {
		return err
	}

	switch cmd, params := rest[0], rest[1:]; cmd {
	case "adduser":
		if len(params) != 1 {
			return errors.New("adduser takes exactly one username")
		}
		return c.addUser(ctx, store, hasher, params[0])
	case "profile":
		if len(params) != 1 {
			return errors.New("profile takes exactly one username")
		}
		return c.profile(ctx, store, hasher, params[0])
	case "info":
		return c.printJSON(info)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (c *CLI) users(store *storage.Store, hasher *cryptox.Hasher) (*services.UserService, error) {
	issuer := auth.NewIssuer(auth.NewSecretCache(), 0)
	return services.NewUserService(store, hasher, issuer, logging.Nop())
}

func (c *CLI) addUser(ctx context.Context, store *storage.Store, hasher *cryptox.Hasher, username string) error {
	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := c.readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	users, err := c.users(store, hasher)
	if err != nil {
		return err
	}
	if err := users.CreateUser(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "user %s created\n", username)
	return nil
}

func (c *CLI) profile(ctx context.Context, store *storage.Store, hasher *cryptox.Hasher, username string) error {
	users, err := c.users(store, hasher)
	if err != nil {
		return err
	}
	p, err := users.GetUserProfile(ctx, username)
	if err != nil {
		return err
	}
	return c.printJSON(p)
}

func (c *CLI) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *CLI) promptPassword(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		defer common.WipeByteArray(b)
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := c.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
