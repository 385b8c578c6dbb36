// Package batch parses every voice transcript and OCR file in an inbox
// directory and collects the resulting records.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/receipt"
	"github.com/cleared-dev/txparse/internal/voice"
)

// ErrUnknownFormat is returned for files no parser is registered for.
var ErrUnknownFormat = errors.New("unknown file format")

// Parser converts one inbox file into transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Extension() string
}

// Registry holds parsers keyed by file extension.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a file in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate extension.
func (r *Registry) Register(p Parser) {
	key := normalizeExt(p.Extension())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser extension: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for an extension, or nil.
func (r *Registry) Get(ext string) Parser {
	return r.parsers[normalizeExt(ext)]
}

// ForFile returns the parser for a file name.
func (r *Registry) ForFile(name string) (Parser, error) {
	p := r.Get(filepath.Ext(name))
	if p == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
	}
	return p, nil
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// DefaultRegistry handles .txt transcripts and .json OCR results.
func DefaultRegistry(vp *voice.Parser, rp *receipt.Parser) *Registry {
	r := NewRegistry()
	r.Register(&VoiceFile{Parser: vp})
	r.Register(&ReceiptFile{Parser: rp})
	return r
}

// VoiceFile reads one utterance per line. Blank lines and lines starting
// with # are skipped.
type VoiceFile struct {
	Parser *voice.Parser
}

func (f *VoiceFile) Extension() string { return "txt" }

func (f *VoiceFile) Parse(r io.Reader) ([]model.Transaction, error) {
	var txns []model.Transaction
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		txns = append(txns, f.Parser.Parse(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return txns, nil
}

// ReceiptFile reads one OCR result as JSON.
type ReceiptFile struct {
	Parser *receipt.Parser
}

func (f *ReceiptFile) Extension() string { return "json" }

func (f *ReceiptFile) Parse(r io.Reader) ([]model.Transaction, error) {
	var ocr model.OCRResult
	if err := json.NewDecoder(r).Decode(&ocr); err != nil {
		return nil, fmt.Errorf("decoding OCR result: %w", err)
	}
	return []model.Transaction{f.Parser.Parse(receipt.FromOCR(ocr))}, nil
}

// ProcessedDir is the inbox subdirectory parsed files are moved to.
const ProcessedDir = "processed"

// Scan returns the files in dir that reg has a parser for, in name order.
func Scan(dir string, reg *Registry) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || reg.Get(filepath.Ext(e.Name())) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, ProcessedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	if err := os.Rename(filepath.Join(dir, fileName), filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Runner parses an inbox directory.
type Runner struct {
	Registry *Registry
	// Move parsed files into the processed subdirectory.
	Move bool
	Log  zerolog.Logger
}

// Run parses every recognized file in dir. It stops at the first file that
// cannot be read or decoded.
func (r *Runner) Run(ctx context.Context, dir string) ([]Record, error) {
	files, err := Scan(dir, r.Registry)
	if err != nil {
		return nil, err
	}

	var recs []Record
	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return recs, err
		}
		txns, err := r.parseFile(fi)
		if err != nil {
			return recs, err
		}
		for _, tx := range txns {
			recs = append(recs, Record{Source: fi.Name, Transaction: tx})
		}
		r.Log.Info().Str("file", fi.Name).Int("records", len(txns)).Msg("parsed file")

		if r.Move {
			if err := MarkProcessed(dir, fi.Name); err != nil {
				return recs, err
			}
		}
	}
	return recs, nil
}

func (r *Runner) parseFile(fi FileInfo) ([]model.Transaction, error) {
	p, err := r.Registry.ForFile(fi.Name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fi.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", fi.Name, err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fi.Name, err)
	}
	return txns, nil
}
