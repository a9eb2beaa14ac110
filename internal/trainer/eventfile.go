package trainer

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// eventHeader is the fixed little-endian prefix of an event file. It is
// followed by matricesCount records of a NUL-padded name and a row-major
// uint16 input matrix.
type eventHeader struct {
	MatricesCount uint32
	Rows          uint32
	Cols          uint32
	NameSize      uint32
}

const eventHeaderSize = 16

// expectedBytes returns the exact file size the header implies.
func (h eventHeader) expectedBytes() int64 {
	record := int64(h.NameSize) + int64(h.Rows)*int64(h.Cols)*2
	return eventHeaderSize + int64(h.MatricesCount)*record
}

func (h eventHeader) validate() error {
	if h.MatricesCount < 1 {
		return fmt.Errorf("%w: matrices count %d", ErrBadFormat, h.MatricesCount)
	}
	if h.Rows < 2 || h.Cols < 2 {
		return fmt.Errorf("%w: matrix %dx%d below minimum 2x2", ErrBadFormat, h.Rows, h.Cols)
	}
	if h.NameSize < 1 {
		return fmt.Errorf("%w: name size %d", ErrBadFormat, h.NameSize)
	}
	return nil
}

// ReadEvent decodes one event file from r, whose total size must be supplied
// for validation, and designates the winner by name. The returned event is
// fully populated or the error leaves no partial state behind.
func ReadEvent(r io.Reader, size int64, eventName, winnerName string) (*Event, error) {
	var header eventHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read event header: %w", err)
	}
	if err := header.validate(); err != nil {
		return nil, err
	}
	if want := header.expectedBytes(); size != want {
		return nil, fmt.Errorf("%w: event file is %d bytes, header implies %d", ErrFileSize, size, want)
	}

	candidates := make([]Candidate, 0, header.MatricesCount)
	winner := -1
	nameBuf := make([]byte, header.NameSize)
	for i := uint32(0); i < header.MatricesCount; i++ {
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return nil, fmt.Errorf("read candidate name: %w", err)
		}
		name := string(nameBuf)
		if nul := strings.IndexByte(name, 0); nul >= 0 {
			name = name[:nul]
		}

		inputs := make([]uint16, header.Rows*header.Cols)
		if err := binary.Read(r, binary.LittleEndian, inputs); err != nil {
			return nil, fmt.Errorf("read candidate %q inputs: %w", name, err)
		}
		digraph, err := NewDigraph(int(header.Rows), int(header.Cols), inputs)
		if err != nil {
			return nil, err
		}

		if name == winnerName {
			if winner >= 0 {
				return nil, fmt.Errorf("%w: %q appears more than once in %q", ErrWinnerAmbiguous, winnerName, eventName)
			}
			winner = len(candidates)
		}
		candidates = append(candidates, Candidate{Name: name, Digraph: digraph})
	}

	if winner < 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrWinnerMissing, winnerName, eventName)
	}
	return NewEvent(eventName, candidates, winner)
}

// WriteEvent encodes candidates sharing the given dimensions into the event
// file layout. Every name is NUL-padded to a common size: the longest name's
// length plus one terminating NUL.
func WriteEvent(w io.Writer, rows, cols int, candidates []Candidate) error {
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no candidates to write", ErrBadFormat)
	}
	nameSize := 1
	for _, c := range candidates {
		if len(c.Name) >= nameSize {
			nameSize = len(c.Name) + 1
		}
	}

	header := eventHeader{
		MatricesCount: uint32(len(candidates)),
		Rows:          uint32(rows),
		Cols:          uint32(cols),
		NameSize:      uint32(nameSize),
	}
	if err := header.validate(); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("write event header: %w", err)
	}

	for _, c := range candidates {
		padded := make([]byte, nameSize)
		copy(padded, c.Name)
		if _, err := w.Write(padded); err != nil {
			return fmt.Errorf("write candidate name: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, c.Digraph.Inputs()); err != nil {
			return fmt.Errorf("write candidate %q inputs: %w", c.Name, err)
		}
	}
	return nil
}

// EventSpec names one event file and the winner designated within it.
type EventSpec struct {
	WinnerName string
	Path       string
}

// LoadEvents reads all event files concurrently and verifies that every event
// agrees on the required weight count. Event names are the file base names.
func LoadEvents(ctx context.Context, specs []EventSpec) ([]*Event, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no event files given", ErrBadArguments)
	}

	events := make([]*Event, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			event, err := loadEventFile(spec)
			if err != nil {
				return err
			}
			events[i] = event
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	want := events[0].RequiredWeightsCount()
	for _, e := range events[1:] {
		if e.RequiredWeightsCount() != want {
			return nil, fmt.Errorf("%w: %q needs %d, %q needs %d", ErrIncompatibleEvents,
				events[0].Name(), want, e.Name(), e.RequiredWeightsCount())
		}
	}
	return events, nil
}

// EventFileInfo describes a decoded event file without designating a winner,
// which only the CLI knows.
type EventFileInfo struct {
	Rows            int
	Cols            int
	NameSize        int
	Names           []string
	RequiredWeights int
}

// InspectEventFile validates an event file and returns its header facts and
// candidate names.
func InspectEventFile(path string) (*EventFileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat event file: %w", err)
	}

	r := bufio.NewReader(f)
	var header eventHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read event header: %w", err)
	}
	if err := header.validate(); err != nil {
		return nil, err
	}
	if want := header.expectedBytes(); info.Size() != want {
		return nil, fmt.Errorf("%w: event file is %d bytes, header implies %d", ErrFileSize, info.Size(), want)
	}

	names := make([]string, 0, header.MatricesCount)
	nameBuf := make([]byte, header.NameSize)
	for i := uint32(0); i < header.MatricesCount; i++ {
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return nil, fmt.Errorf("read candidate name: %w", err)
		}
		name := string(nameBuf)
		if nul := strings.IndexByte(name, 0); nul >= 0 {
			name = name[:nul]
		}
		names = append(names, name)
		if _, err := io.CopyN(io.Discard, r, int64(header.Rows)*int64(header.Cols)*2); err != nil {
			return nil, fmt.Errorf("skip candidate inputs: %w", err)
		}
	}

	return &EventFileInfo{
		Rows:            int(header.Rows),
		Cols:            int(header.Cols),
		NameSize:        int(header.NameSize),
		Names:           names,
		RequiredWeights: RequiredWeightsCount(int(header.Rows), int(header.Cols)),
	}, nil
}

func loadEventFile(spec EventSpec) (*Event, error) {
	f, err := os.Open(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("open event file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat event file: %w", err)
	}

	name := filepath.Base(spec.Path)
	event, err := ReadEvent(bufio.NewReader(f), info.Size(), name, spec.WinnerName)
	if err != nil {
		return nil, fmt.Errorf("event file %s: %w", spec.Path, err)
	}
	return event, nil
}
