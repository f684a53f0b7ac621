package history

import (
	"fmt"
	"io"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/xvierd/fast-cli/internal/domain"
)

// ReadTOML decodes a history file of [[records]] tables. Every row is
// validated; the first invalid row fails the whole read.
func ReadTOML(r io.Reader) ([]*domain.SessionRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return nil, err
	}
	file.applyDefaults()

	return file.toDomain()
}

// ReadFile decodes the TOML history file at path.
func ReadFile(path string) ([]*domain.SessionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadTOML(f)
}
