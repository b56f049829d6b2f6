package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Token is a resolved GitHub credential plus where it came from. The value
// is never logged or echoed.
type Token struct {
	Value  string
	Source TokenSource
}

// IsZero reports whether no credential was found in any source.
func (t Token) IsZero() bool { return t.Value == "" }

type TokenSource string

const (
	TokenSourceFlag TokenSource = "flag"
	TokenSourceEnv  TokenSource = "env:GITHUB_TOKEN"
	TokenSourceGH   TokenSource = "gh"
)

// ghTokenTimeout bounds the gh subprocess so a broken gh config or
// credential helper cannot hang an audit.
const ghTokenTimeout = 5 * time.Second

// ResolveToken finds the credential used for filing issues.
//
// Precedence:
//  1. explicit (if non-empty)
//  2. GITHUB_TOKEN env var
//  3. GitHub CLI: `gh auth token -h github.com`
//
// A missing token is not an error: the zero Token is returned and the
// caller decides whether filing can proceed.
func ResolveToken(ctx context.Context, explicit string) (Token, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return Token{Value: v, Source: TokenSourceFlag}, nil
	}
	if v := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); v != "" {
		return Token{Value: v, Source: TokenSourceEnv}, nil
	}
	return ghCLIToken(ctx)
}

func ghCLIToken(ctx context.Context) (Token, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return Token{}, nil
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ghTokenTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "gh", "auth", "token", "-h", "github.com")
	// exec uses the last duplicate of an environment key, so appending
	// overrides any inherited pager.
	cmd.Env = append(os.Environ(), "GH_PAGER=cat")
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Token{}, ctx.Err()
		}
		// gh installed but not logged in (or otherwise failing): no token,
		// not an error. The raw gh output is never surfaced.
		return Token{}, nil
	}

	v := strings.TrimSpace(string(out))
	if v == "" {
		return Token{}, nil
	}
	if strings.ContainsAny(v, " \t\n\r") {
		return Token{}, errors.New("gh returned a malformed token")
	}
	return Token{Value: v, Source: TokenSourceGH}, nil
}
