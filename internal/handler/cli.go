// Package handler is the line-oriented front end. It renders nothing fancy
// and holds no invariants; everything of substance lives behind the service.
package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/language-enforcer/internal/auth"
	"github.com/yourusername/language-enforcer/internal/models"
	"github.com/yourusername/language-enforcer/internal/service"
	"github.com/yourusername/language-enforcer/internal/session"
	"github.com/yourusername/language-enforcer/pkg/dataapi"
	"github.com/yourusername/language-enforcer/pkg/utils"
)

type CLI struct {
	svc     *service.Service
	authSvc *dataapi.AuthService
	in      *bufio.Scanner
	out     io.Writer

	sess    *auth.Session
	current *models.CardView
}

func NewCLI(svc *service.Service, authSvc *dataapi.AuthService, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		svc:     svc,
		authSvc: authSvc,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run reads commands until EOF or "quit".
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "language enforcer (type 'help')")

	for {
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			return c.in.Err()
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		if err := c.dispatch(ctx, line); err != nil {
			fmt.Fprintf(c.out, "error: %s\n", userMessage(err))
		}
	}
}

func (c *CLI) dispatch(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case "help":
		c.help()
		return nil
	case "counts":
		return c.counts(ctx)
	case "chapters":
		return c.chapters(ctx)
	case "start":
		if err := c.svc.StartSession(ctx); err != nil {
			return err
		}
		return c.next(ctx)
	case "next":
		return c.next(ctx)
	case "grade":
		return c.grade(ctx, rest)
	case "continue":
		if err := c.svc.ContinueSession(ctx); err != nil {
			return err
		}
		return c.next(ctx)
	case "end":
		c.svc.EndSession()
		c.current = nil
		fmt.Fprintln(c.out, "session ended")
		return nil
	case "signin":
		return c.signIn(ctx, rest)
	case "sync":
		return c.svc.Refresh(ctx, c.sess)
	case "correct":
		return c.correct(ctx, rest)
	case "report":
		return c.report(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *CLI) help() {
	fmt.Fprintln(c.out, `commands:
  counts                       due and total card counts
  chapters                     list known chapters
  start | next | continue | end
  grade <again|hard|good|easy> grade the shown card
  signin <email>               sign in for sync and corrections
  sync                         pull the remote snapshot
  correct <text>=<translation> fix the shown card's content
  report [note]                flag the shown card
  quit`)
}

func (c *CLI) counts(ctx context.Context) error {
	due, total, err := c.svc.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d due / %d total\n", due, total)
	return nil
}

func (c *CLI) chapters(ctx context.Context) error {
	chapters, err := c.svc.Chapters(ctx)
	if err != nil {
		return err
	}

	if len(chapters) == 0 {
		fmt.Fprintln(c.out, "no chapters yet")
		return nil
	}
	for _, chapter := range chapters {
		fmt.Fprintln(c.out, chapter)
	}
	return nil
}

func (c *CLI) next(ctx context.Context) error {
	view, err := c.svc.NextDueCard(ctx)
	if err != nil {
		return err
	}

	if view == nil {
		c.current = nil
		if c.svc.SessionState() == session.Prompt {
			fmt.Fprintln(c.out, "batch done - 'continue' for more or 'end' to stop")
		} else {
			fmt.Fprintln(c.out, "nothing due")
		}
		return nil
	}

	c.current = view
	fmt.Fprintf(c.out, "[%s] %s\n", view.Language, view.Text)
	return nil
}

func (c *CLI) grade(ctx context.Context, arg string) error {
	if c.current == nil {
		return fmt.Errorf("no card shown, use 'next'")
	}

	var grade models.Grade
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "again":
		grade = models.Again
	case "hard":
		grade = models.Hard
	case "good":
		grade = models.Good
	case "easy":
		grade = models.Easy
	default:
		return fmt.Errorf("unknown grade %q", arg)
	}

	if translation := c.current.Translation; translation != nil {
		fmt.Fprintf(c.out, "  -> %s\n", *translation)
	}

	if err := c.svc.GradeCard(ctx, c.current.CardID, grade); err != nil {
		return err
	}
	return c.next(ctx)
}

func (c *CLI) signIn(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("usage: signin <email>")
	}

	fmt.Fprint(c.out, "password: ")
	if !c.in.Scan() {
		return fmt.Errorf("read password: %w", io.EOF)
	}
	password := c.in.Text()

	sess, err := c.authSvc.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	c.sess = sess
	zap.S().Infow("signed in", "email", email)
	fmt.Fprintln(c.out, "signed in")
	return nil
}

func (c *CLI) correct(ctx context.Context, rest string) error {
	if c.current == nil {
		return fmt.Errorf("no card shown, use 'next'")
	}

	text, translation, found := strings.Cut(rest, "=")
	if !found {
		return fmt.Errorf("usage: correct <text>=<translation>")
	}

	var textField, translationField models.Field
	if v := strings.TrimSpace(text); v != "" {
		textField = models.SetField(v)
	}
	if v := strings.TrimSpace(translation); v != "" {
		translationField = models.SetField(v)
	}

	if c.sess.Valid(utils.NowUTC()) {
		return c.svc.ApplyCorrection(ctx, c.sess, c.current.WordID, textField, translationField)
	}
	return c.svc.ApplyCorrectionLocal(ctx, c.current.WordID, textField, translationField)
}

func (c *CLI) report(ctx context.Context, note string) error {
	if c.current == nil {
		return fmt.Errorf("no card shown, use 'next'")
	}

	issue := models.ReportedIssue{
		CardID:      c.current.CardID,
		WordID:      c.current.WordID,
		Text:        c.current.Text,
		Translation: c.current.Translation,
	}
	if note = strings.TrimSpace(note); note != "" {
		issue.Note = &note
	}

	if err := c.svc.ReportIssue(ctx, issue); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "reported")
	return nil
}

// userMessage maps core error kinds onto short user-facing strings. The core
// itself only returns typed kinds.
func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrAuthRequired):
		return "you must sign in first"
	case errors.Is(err, models.ErrConflict):
		return "that card is being graded already, try again"
	case errors.Is(err, models.ErrNotFound):
		return "card not found"
	case errors.Is(err, models.ErrTransient):
		return "network trouble, retry the sync"
	case errors.Is(err, models.ErrValidation):
		return "the server sent an inconsistent snapshot"
	default:
		return err.Error()
	}
}
