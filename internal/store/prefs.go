package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Theme is the color scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ErrInvalidTheme is returned for a theme other than dark or light.
var ErrInvalidTheme = errors.New("invalid theme")

// ParseTheme validates s as a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeDark, ThemeLight:
		return t, nil
	}
	return "", fmt.Errorf("%w %q (want dark or light)", ErrInvalidTheme, s)
}

type prefsRepo struct {
	kv *kvTable
}

func (r *prefsRepo) Theme(ctx context.Context) (Theme, error) {
	raw, err := r.kv.get(ctx, KeyTheme)
	if errors.Is(err, ErrNotFound) {
		return ThemeDark, nil
	}
	if err != nil {
		return ThemeDark, err
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ThemeDark, nil
	}
	t, err := ParseTheme(s)
	if err != nil {
		return ThemeDark, nil
	}
	return t, nil
}

func (r *prefsRepo) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	raw, err := json.Marshal(string(theme))
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	return r.kv.put(ctx, KeyTheme, raw)
}
