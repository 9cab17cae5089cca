package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed/manga.yaml
var defaultSeed []byte

const releaseDateLayout = "2006-01-02"

// seedRecord is the on-disk shape of an item.
type seedRecord struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author"`
	Series      string   `yaml:"series"`
	Publisher   string   `yaml:"publisher"`
	Genres      []string `yaml:"genres"`
	Volume      int      `yaml:"volume"`
	Price       string   `yaml:"price"`
	ReleaseDate string   `yaml:"releaseDate"`
	InStock     bool     `yaml:"inStock"`
	Synopsis    string   `yaml:"synopsis"`
	CoverImage  string   `yaml:"coverImage"`
}

type seedFile struct {
	Items []seedRecord `yaml:"items"`
}

// DefaultItems returns the catalog compiled into the binary.
func DefaultItems() ([]Item, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

// LoadFile reads a catalog seed from path.
func LoadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// LoadSeed decodes a yaml catalog. Every record is validated; the first invalid one fails the load.
func LoadSeed(r io.Reader) ([]Item, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	items := make([]Item, 0, len(file.Items))
	for i, rec := range file.Items {
		it, err := rec.toItem()
		if err != nil {
			return nil, fmt.Errorf("record #%d (%s): %w", i+1, rec.ID, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (r seedRecord) toItem() (Item, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return Item{}, fmt.Errorf("price %q: %w", r.Price, apperrors.ErrInvalidCatalog)
	}
	released, err := time.Parse(releaseDateLayout, strings.TrimSpace(r.ReleaseDate))
	if err != nil {
		return Item{}, fmt.Errorf("releaseDate %q: %w", r.ReleaseDate, apperrors.ErrInvalidCatalog)
	}
	it := Item{
		ID:          strings.TrimSpace(r.ID),
		Title:       strings.TrimSpace(r.Title),
		Author:      strings.TrimSpace(r.Author),
		Series:      strings.TrimSpace(r.Series),
		Publisher:   strings.TrimSpace(r.Publisher),
		Genres:      r.Genres,
		Volume:      r.Volume,
		Price:       price,
		ReleaseDate: released,
		InStock:     r.InStock,
		Synopsis:    strings.TrimSpace(r.Synopsis),
		CoverImage:  strings.TrimSpace(r.CoverImage),
	}
	return it, validateItem(it)
}

func validateItem(it Item) error {
	switch {
	case it.ID == "":
		return fmt.Errorf("empty id: %w", apperrors.ErrInvalidCatalog)
	case it.Title == "":
		return fmt.Errorf("empty title: %w", apperrors.ErrInvalidCatalog)
	case len(it.Genres) == 0:
		return fmt.Errorf("no genres: %w", apperrors.ErrInvalidCatalog)
	case it.Volume <= 0:
		return fmt.Errorf("volume %d: %w", it.Volume, apperrors.ErrInvalidCatalog)
	case it.Price.IsNegative():
		return fmt.Errorf("price %s: %w", it.Price, apperrors.ErrInvalidCatalog)
	}
	for _, g := range it.Genres {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("blank genre: %w", apperrors.ErrInvalidCatalog)
		}
	}
	return nil
}
