// ym_decoder.go - YM1!..YM6! probing and YM5!/YM6! body parsing.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	ymTagYM1     = 0x594d3121         // "YM1!"
	ymTagYM2     = 0x594d3221         // "YM2!"
	ymTagYM3     = 0x594d3321         // "YM3!"
	ymTagYM4     = 0x594d3421         // "YM4!"
	ymTagYM5     = 0x594d3521         // "YM5!"
	ymTagYM6     = 0x594d3621         // "YM6!"
	ymTagLeonard = 0x4c654f6e41724421 // "LeOnArD!"
	ymTagEnd     = 0x456e6421         // "End!"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUnknownFormat     = errors.New("unknown format")
	ErrBadSignature      = errors.New("bad signature")
	ErrBadFrameCount     = errors.New("bad frame count")
	ErrBadSampleCount    = errors.New("bad sample count")
	ErrBadExtraBytes     = errors.New("bad extra bytes")
	ErrBadFooter         = errors.New("bad footer")
)

// aymDebugEnabled caches the AYM_DEBUG environment variable at init time.
var aymDebugEnabled = func() bool {
	value := strings.ToLower(os.Getenv("AYM_DEBUG"))
	return value == "1" || value == "true" || value == "yes"
}()

// YMDecoder parses a YM register dump into an archive. A failed Read leaves
// the archive in an undefined state; callers keep the previous archive and
// swap in the new one only on success.
type YMDecoder struct {
	reader  *ByteReader
	archive *YMArchive
}

func NewYMDecoder(reader *ByteReader, archive *YMArchive) *YMDecoder {
	return &YMDecoder{reader: reader, archive: archive}
}

// Probe reports whether the image starts with any of the six YM magics.
func (d *YMDecoder) Probe() bool {
	d.reader.Rewind()
	magic, err := d.reader.ReadU32BE()
	if err != nil {
		return false
	}
	switch magic {
	case ymTagYM1, ymTagYM2, ymTagYM3, ymTagYM4, ymTagYM5, ymTagYM6:
		return true
	}
	return false
}

// Read parses the whole image. YM1!-YM4! are recognized so the caller gets a
// precise error rather than a generic unknown-format one.
func (d *YMDecoder) Read() error {
	d.reader.Rewind()
	magic, err := d.reader.ReadU32BE()
	if err != nil {
		return fmt.Errorf("read magic: %w", err)
	}
	switch magic {
	case ymTagYM1:
		return fmt.Errorf("YM1!: %w", ErrUnsupportedFormat)
	case ymTagYM2:
		return fmt.Errorf("YM2!: %w", ErrUnsupportedFormat)
	case ymTagYM3:
		return fmt.Errorf("YM3!: %w", ErrUnsupportedFormat)
	case ymTagYM4:
		return fmt.Errorf("YM4!: %w", ErrUnsupportedFormat)
	case ymTagYM5, ymTagYM6:
		return d.readBody(magic)
	}
	return ErrUnknownFormat
}

// readBody parses the YM5! layout. YM6! is identical on the wire for
// everything this player consumes.
func (d *YMDecoder) readBody(magic uint32) error {
	d.archive.Header.Magic = magic
	if err := d.readHeader(); err != nil {
		return err
	}
	if err := d.readSamples(); err != nil {
		return err
	}
	if err := d.readMetadata(); err != nil {
		return err
	}
	if err := d.readFrames(); err != nil {
		return err
	}
	if err := d.readFooter(); err != nil {
		return err
	}
	if aymDebugEnabled {
		header := &d.archive.Header
		fmt.Printf("YM debug: frames=%d attrs=0x%X samples=%d clock=%d rate=%d loop=%d title=%q author=%q\n",
			header.Frames, header.Attributes, header.Samples, header.Frequency,
			header.Framerate, header.Frameloop, d.archive.Infos.Title, d.archive.Infos.Author)
	}
	return nil
}

func (d *YMDecoder) readHeader() error {
	header := &d.archive.Header

	var err error
	if header.Signature, err = d.reader.ReadU64BE(); err != nil {
		return fmt.Errorf("read signature: %w", err)
	}
	if header.Signature != ymTagLeonard {
		return ErrBadSignature
	}
	if header.Frames, err = d.reader.ReadU32BE(); err != nil {
		return fmt.Errorf("read frames: %w", err)
	}
	if header.Frames > YM_MAX_FRAMES {
		return ErrBadFrameCount
	}
	if header.Attributes, err = d.reader.ReadU32BE(); err != nil {
		return fmt.Errorf("read attributes: %w", err)
	}
	if header.Samples, err = d.reader.ReadU16BE(); err != nil {
		return fmt.Errorf("read samples: %w", err)
	}
	if header.Samples > YM_MAX_SAMPLES {
		return ErrBadSampleCount
	}
	if header.Frequency, err = d.reader.ReadU32BE(); err != nil {
		return fmt.Errorf("read frequency: %w", err)
	}
	if header.Framerate, err = d.reader.ReadU16BE(); err != nil {
		return fmt.Errorf("read framerate: %w", err)
	}
	if header.Frameloop, err = d.reader.ReadU32BE(); err != nil {
		return fmt.Errorf("read frameloop: %w", err)
	}
	if header.Extrabytes, err = d.reader.ReadU16BE(); err != nil {
		return fmt.Errorf("read extrabytes: %w", err)
	}
	if header.Extrabytes != 0 {
		return ErrBadExtraBytes
	}
	return nil
}

func (d *YMDecoder) readSamples() error {
	count := int(d.archive.Header.Samples)
	for index := 0; index < count; index++ {
		sample := &d.archive.Samples[index]
		size, err := d.reader.ReadU32BE()
		if err != nil {
			return fmt.Errorf("read sample size: %w", err)
		}
		if size > YM_MAX_SAMPLE_SIZE {
			return ErrBadSampleCount
		}
		sample.Size = size
		for offset := uint32(0); offset < size; offset++ {
			if sample.Data[offset], err = d.reader.ReadU8(); err != nil {
				return fmt.Errorf("read sample data: %w", err)
			}
		}
	}
	return nil
}

func (d *YMDecoder) readMetadata() error {
	infos := &d.archive.Infos

	var err error
	if infos.Title, err = d.reader.ReadCString(); err != nil {
		return fmt.Errorf("read title: %w", err)
	}
	if infos.Author, err = d.reader.ReadCString(); err != nil {
		return fmt.Errorf("read author: %w", err)
	}
	if infos.Comments, err = d.reader.ReadCString(); err != nil {
		return fmt.Errorf("read comments: %w", err)
	}
	return nil
}

func (d *YMDecoder) readFrames() error {
	count := int(d.archive.Header.Frames)

	if d.archive.Header.Attributes&0x01 != 0 {
		// Interleaved: register 0 across all frames, then register 1, ...
		for reg := 0; reg < YM_FRAME_SIZE; reg++ {
			for index := 0; index < count; index++ {
				value, err := d.reader.ReadU8()
				if err != nil {
					return fmt.Errorf("read frame data: %w", err)
				}
				d.archive.Frames[index].Data[reg] = value
			}
		}
		return nil
	}

	for index := 0; index < count; index++ {
		frame := &d.archive.Frames[index]
		for reg := 0; reg < YM_FRAME_SIZE; reg++ {
			value, err := d.reader.ReadU8()
			if err != nil {
				return fmt.Errorf("read frame data: %w", err)
			}
			frame.Data[reg] = value
		}
	}
	return nil
}

func (d *YMDecoder) readFooter() error {
	magic, err := d.reader.ReadU32BE()
	if err != nil {
		return fmt.Errorf("read footer: %w", err)
	}
	if magic != ymTagEnd {
		return ErrBadFooter
	}
	d.archive.Footer.Magic = magic
	return nil
}
