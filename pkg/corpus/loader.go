// Package corpus reads labeled training sentences, one file per category.
package corpus

import (
	"bufio"
	"embed"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"MaxBot/pkg/classifier"
)

//go:embed data/*.txt
var embedded embed.FS

const defaultExtension = ".txt"

// maxLineSize bounds a single training sentence.
const maxLineSize = 64 * 1024

type Option func(*Loader)

func WithExtension(ext string) Option {
	return func(l *Loader) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		l.extension = ext
	}
}

type Loader struct {
	source    fs.FS
	log       *logrus.Logger
	extension string
}

func New(source fs.FS, logger *logrus.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	l := &Loader{
		source:    source,
		log:       logger,
		extension: defaultExtension,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Default returns the Portuguese corpus shipped with the binary.
func Default() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// FromDirectory uses dir when it is set and falls back to Default.
func FromDirectory(dir string) fs.FS {
	if strings.TrimSpace(dir) == "" {
		return Default()
	}
	return os.DirFS(dir)
}

// Load reads one source per category. A category whose source cannot be read
// is logged and skipped, the remaining categories still load.
func (l *Loader) Load() []classifier.Example {
	var examples []classifier.Example

	for _, category := range classifier.Categories() {
		name := path.Clean(string(category) + l.extension)

		lines, err := l.readLines(name)
		if err != nil {
			l.log.WithFields(logrus.Fields{
				"category": category,
				"path":     name,
				"error":    err.Error(),
			}).Warn("Failed to read corpus source, category skipped")
			continue
		}

		for _, line := range lines {
			examples = append(examples, classifier.Example{Text: line, Category: category})
		}

		l.log.WithFields(logrus.Fields{
			"category": category,
			"examples": len(lines),
		}).Debug("Corpus category loaded")
	}

	return examples
}

func (l *Loader) readLines(name string) ([]string, error) {
	if l.source == nil {
		return nil, fs.ErrNotExist
	}

	f, err := l.source.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// Merge concatenates example sets in order.
func Merge(sets ...[]classifier.Example) []classifier.Example {
	n := 0
	for _, set := range sets {
		n += len(set)
	}
	out := make([]classifier.Example, 0, n)
	for _, set := range sets {
		out = append(out, set...)
	}
	return out
}
