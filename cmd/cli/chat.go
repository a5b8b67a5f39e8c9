package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	surveyterm "github.com/AlecAivazis/survey/v2/terminal"

	"github.com/fleveque/stock-agent/internal/app"
	"github.com/fleveque/stock-agent/internal/session"
	"github.com/fleveque/stock-agent/internal/terminal"
)

const (
	actionRun     = "Run a query"
	actionSave    = "Save last query to history"
	actionHistory = "Show history"
	actionQuit    = "Quit"
)

// chat is the interactive loop. The history lives in the app's session and
// is cleared when the loop ends.
type chat struct {
	app       *app.App
	lastQuery string
}

func newChat(a *app.App) *chat {
	return &chat{app: a}
}

func (c *chat) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		var action string
		prompt := &survey.Select{
			Message: "What would you like to do?",
			Options: []string{actionRun, actionSave, actionHistory, actionQuit},
			Default: actionRun,
		}
		if err := survey.AskOne(prompt, &action); err != nil {
			if errors.Is(err, surveyterm.InterruptErr) {
				return nil
			}
			return fmt.Errorf("reading action: %w", err)
		}

		switch action {
		case actionRun:
			if err := c.ask(ctx); err != nil {
				if errors.Is(err, surveyterm.InterruptErr) {
					return nil
				}
				return err
			}
		case actionSave:
			c.save(ctx)
		case actionHistory:
			c.showHistory(ctx)
		case actionQuit:
			return nil
		}
	}
}

func (c *chat) ask(ctx context.Context) error {
	var query string
	prompt := &survey.Input{
		Message: "Ask about stocks:",
		Help:    "e.g. stock price of TSLA, compare AAPL and MSFT, what is a dividend?",
	}
	if err := survey.AskOne(prompt, &query); err != nil {
		return err
	}

	if session.IsBlank(query) {
		fmt.Println(terminal.Warning(session.EmptyQueryMessage))
		return nil
	}

	c.lastQuery = query
	runQuery(ctx, c.app, query)
	return nil
}

func (c *chat) save(ctx context.Context) {
	if _, err := c.app.Session.Save(ctx, c.lastQuery); err != nil {
		if errors.Is(err, session.ErrEmptyQuery) {
			fmt.Println(terminal.Warning(session.EmptyQueryMessage))
			return
		}
		fmt.Println(terminal.Warning(err.Error()))
		return
	}
	fmt.Println("Saved to history.")
}

func (c *chat) showHistory(ctx context.Context) {
	entries, err := c.app.Session.Recent(ctx)
	if err != nil {
		fmt.Println(terminal.Warning(err.Error()))
		return
	}
	fmt.Println(terminal.History(entries))
	fmt.Println()
}
