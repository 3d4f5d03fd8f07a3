package mockapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/five82/stayfinder/internal/api"
)

//go:embed seed.yaml
var defaultFixtures []byte

// Fixtures is the YAML seed file: demo accounts and listings.
type Fixtures struct {
	Users    []FixtureUser    `yaml:"users"`
	Listings []FixtureListing `yaml:"listings"`
}

// FixtureUser is a demo account created at startup.
type FixtureUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Phone    string `yaml:"phone"`
	City     string `yaml:"city"`
	UserType string `yaml:"user_type"`
}

// FixtureListing mirrors api.Listing with YAML keys. Omitting amenities
// leaves them nil so clients see the default badge set.
type FixtureListing struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	City          string   `yaml:"city"`
	Location      string   `yaml:"location"`
	Type          string   `yaml:"type"`
	Price         float64  `yaml:"price"`
	OriginalPrice float64  `yaml:"original_price"`
	Amenities     []string `yaml:"amenities"`
	Image         string   `yaml:"image"`
	Description   string   `yaml:"description"`
	Address       string   `yaml:"address"`
	Contact       string   `yaml:"contact"`
}

// Listing converts the fixture to the wire type.
func (f FixtureListing) Listing() api.Listing {
	return api.Listing{
		ID:            f.ID,
		Name:          f.Name,
		City:          f.City,
		Location:      f.Location,
		Category:      f.Type,
		Price:         f.Price,
		OriginalPrice: f.OriginalPrice,
		Amenities:     f.Amenities,
		Image:         f.Image,
		Description:   f.Description,
		Address:       f.Address,
		Contact:       f.Contact,
	}
}

// AllListings converts every fixture listing.
func (f Fixtures) AllListings() []api.Listing {
	out := make([]api.Listing, 0, len(f.Listings))
	for _, l := range f.Listings {
		out = append(out, l.Listing())
	}
	return out
}

// ParseFixtures decodes a fixture document.
func ParseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, l := range f.Listings {
		if l.Name == "" {
			return Fixtures{}, fmt.Errorf("fixture listing %d: name is required", i)
		}
	}
	return f, nil
}

// LoadFixtures reads path, or the built-in seed when path is empty.
func LoadFixtures(path string) (Fixtures, error) {
	if path == "" {
		return ParseFixtures(defaultFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// WatchFixtures reloads path whenever it changes and hands the result to
// apply. A file that fails to parse is logged and ignored. The watcher stops
// when ctx is cancelled.
func WatchFixtures(ctx context.Context, path string, logger *slog.Logger, apply func(Fixtures)) error {
	if path == "" {
		return errors.New("watch fixtures: no file")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch fixtures: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch fixtures: %w", err)
	}
	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch fixtures: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				f, err := LoadFixtures(abs)
				if err != nil {
					logger.Warn("fixture reload failed", "path", abs, "error", err)
					continue
				}
				logger.Info("fixtures reloaded", "path", abs, "listings", len(f.Listings))
				apply(f)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("fixture watcher error", "error", err)
			}
		}
	}()
	return nil
}
