package world

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// ErrBadSave is returned when a map stream is not a valid saved grid.
var ErrBadSave = errors.New("world: bad map file")

const (
	saveMagic   = "CHKV"
	saveVersion = 1
)

type saveHeader struct {
	Magic   [4]byte
	Version uint16
	Width   int32
	Height  int32
	Length  int32
	UUID    [16]byte
}

// Save writes g to w as a zstd compressed stream.
func Save(w io.Writer, g *Grid) error {
	return saveWithMagic(w, g, saveMagic)
}

func saveWithMagic(w io.Writer, g *Grid, magic string) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hdr := saveHeader{
		Version: saveVersion,
		Width:   int32(g.Width),
		Height:  int32(g.Height),
		Length:  int32(g.Length),
		UUID:    g.UUID,
	}
	copy(hdr.Magic[:], magic)
	if err := binary.Write(bw, binary.LittleEndian, &hdr); err != nil {
		enc.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, g.blocks); err != nil {
		enc.Close()
		return fmt.Errorf("write blocks: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Load reads a grid previously written by Save.
func Load(r io.Reader) (*Grid, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	br := bufio.NewReaderSize(dec, 256*1024)

	var hdr saveHeader
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadSave, err)
	}
	if string(hdr.Magic[:]) != saveMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadSave, hdr.Magic[:])
	}
	if hdr.Version != saveVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadSave, hdr.Version)
	}

	g, err := NewGrid(int(hdr.Width), int(hdr.Height), int(hdr.Length))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSave, err)
	}
	g.UUID = uuid.UUID(hdr.UUID)
	if err := binary.Read(br, binary.LittleEndian, g.blocks); err != nil {
		return nil, fmt.Errorf("%w: blocks: %v", ErrBadSave, err)
	}
	return g, nil
}
