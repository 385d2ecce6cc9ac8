package pipeline

import (
	"fmt"
	"os"

	"github.com/matzehuels/keygrid/pkg/config"
	"github.com/matzehuels/keygrid/pkg/errors"
)

// Load reads and decodes the layout named by opts. It returns the decoded
// layout and the raw bytes it was decoded from, which key the cache.
func Load(opts Options) (*config.Layout, []byte, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}

	data := opts.Source
	if data == nil {
		if err := errors.ValidatePath(opts.Path); err != nil {
			return nil, nil, err
		}
		var err error
		data, err = os.ReadFile(opts.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file not found: %s", opts.Path)
			}
			return nil, nil, fmt.Errorf("read %s: %w", opts.Path, err)
		}
	}

	layout, err := config.Parse(data, opts.Format)
	if err != nil {
		return nil, nil, err
	}
	for _, section := range layout.Ignored {
		opts.Logger.Warn("ignoring unknown section", "section", section)
	}
	return layout, data, nil
}
