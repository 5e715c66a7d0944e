package store

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"cardlink/internal/domain"
)

// Card files hold payment details, so keep them private to the owner.
const cardFileMode = 0o600

// ErrCardFileExists is returned by WriteTemplate when the target exists.
var ErrCardFileExists = errors.New("store: card file already exists")

// CardFileStore reads card details from a JSON file. An empty path serves
// the built-in placeholder card.
type CardFileStore struct {
	path string
}

func NewCardFileStore(path string) *CardFileStore {
	return &CardFileStore{path: strings.TrimSpace(path)}
}

// LoadCard reads the card file. A missing file is reported with
// os.ErrNotExist; a file without card details with domain.ErrEmptyPayload.
func (s *CardFileStore) LoadCard() (domain.CardData, error) {
	if s.path == "" {
		return domain.PlaceholderCard(), nil
	}
	var card domain.CardData
	if err := readJSON(s.path, &card); err != nil {
		return domain.CardData{}, errors.Wrapf(err, "store: read card %s", s.path)
	}
	if card.Payload().Empty() {
		return domain.CardData{}, errors.Wrapf(domain.ErrEmptyPayload, "store: card %s", s.path)
	}
	return card, nil
}

// WriteTemplate writes the placeholder card to the store's path so the user
// can fill in real details. It refuses to overwrite unless force is set.
func (s *CardFileStore) WriteTemplate(force bool) error {
	if s.path == "" {
		return errors.New("store: no card file path")
	}
	if !force {
		if _, err := os.Stat(s.path); err == nil {
			return errors.Wrap(ErrCardFileExists, s.path)
		}
	}
	return writeJSON(s.path, domain.PlaceholderCard(), cardFileMode)
}

// Compile-time assertion that CardFileStore implements domain.CardStore.
var _ domain.CardStore = (*CardFileStore)(nil)
