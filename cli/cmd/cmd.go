package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ardnew/gwbasic/lang"
	"github.com/ardnew/gwbasic/lang/fileio"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok {
		return nil
	}

	return ktx
}

// Streams are the standard streams a command reads and writes. Commands take
// them from the context so tests can substitute buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context carrying s. Nil members fall back
// to the process streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// fileKey identifies a file by device and inode so that the same program
// named twice, through a symlink or a relative path, is loaded once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// Sources is the ordered set of program files named on the command line.
type Sources struct {
	files    []*os.File
	stdin    io.Reader
	hasStdin bool
}

// OpenSources opens each path in order. Duplicates are skipped, and "-"
// (or no paths at all) selects stdin, which is read after every named file.
func OpenSources(paths []string, stdin io.Reader) (*Sources, error) {
	src := &Sources{stdin: stdin}

	if len(paths) == 0 {
		src.hasStdin = true

		return src, nil
	}

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			src.hasStdin = true

			continue
		}

		f, err := openUnique(path, seen)
		if err != nil {
			_ = src.Close()

			return nil, ErrOpenSource.With(sourceAttr(path)).Wrap(err)
		}

		if f != nil {
			src.files = append(src.files, f)
		}
	}

	return src, nil
}

func openUnique(path string, seen map[fileKey]struct{}) (*os.File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return nil, nil
		}

		seen[key] = struct{}{}
	}

	return os.Open(resolved)
}

// UsesStdin reports whether the program text is read from stdin, in which
// case INPUT cannot also read from it.
func (s *Sources) UsesStdin() bool { return s.hasStdin }

// Reader returns the concatenation of every source.
func (s *Sources) Reader() io.Reader {
	readers := make([]io.Reader, 0, len(s.files)+1)
	for _, f := range s.files {
		readers = append(readers, f)
	}

	if s.hasStdin && s.stdin != nil {
		readers = append(readers, s.stdin)
	}

	return io.MultiReader(readers...)
}

// Close closes every opened file.
func (s *Sources) Close() error {
	var first error

	for _, f := range s.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Load reads every line of s into sess.
func (s *Sources) Load(ctx context.Context, sess *lang.Session) error {
	return sess.LoadReader(ctx, s.Reader())
}

// newFiles returns a file manager rooted at dir.
func newFiles(dir string) *fileio.Manager {
	if dir == "" {
		dir = "."
	}

	return fileio.New(osfs.New(dir))
}
