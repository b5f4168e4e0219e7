package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/app"
	"github.com/prepdeck/prepdeck/internal/llm"
	"github.com/prepdeck/prepdeck/internal/logging"
	"github.com/prepdeck/prepdeck/internal/quiz"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/tutor"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	deck, err := loadDeck(d)
	if err != nil {
		return err
	}

	prefs := d.store.PrefsRepo()
	name, err := prefs.Theme(ctx)
	if err != nil {
		d.logger.Warn("read theme, using dark", logging.FieldError, err)
		name = store.ThemeDark
	}
	theme.Apply(theme.ForName(string(name)))

	events := d.store.EventRepo()
	opts := []tutor.Option{tutor.WithLogger(logging.Component(d.logger, "tutor"))}
	provider, err := llm.New(ctx, d.cfg.LLM, events, logging.Component(d.logger, "llm"))
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The tutor will answer from its built-in notes.")
	case provider != nil:
		opts = append(opts, tutor.WithProvider(provider))
		d.logger.Info("llm enabled", "provider", d.cfg.LLM.Provider, "model", provider.ModelID())
	}

	d.logger.Info("starting", "version", version, "deck", deck.Name, "cards", len(deck.Cards))
	return app.Run(app.Options{
		Engine:     d.engine,
		Deck:       deck,
		Tutor:      tutor.New(d.engine, opts...),
		Questions:  d.store.QuestionRepo(),
		Events:     events,
		Reviews:    d.reviews,
		TutorDelay: d.cfg.Tutor.Delay,
		Logger:     d.logger,
	})
}

// loadDeck reads the configured deck and checks this binary can use it.
func loadDeck(d *deps) (*quiz.Deck, error) {
	deck, err := quiz.Load(d.cfg.DeckPath)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	if err := deck.CheckCompatible(version); err != nil {
		return nil, err
	}
	return deck, nil
}
