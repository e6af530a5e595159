// Package exiftest builds small EXIF blocks and JPEG files carrying them for
// use in tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
)

// Camera describes the tags to store. Zero values are left out.
type Camera struct {
	Model    string
	Lens     string
	Exposure [2]uint32 // numerator, denominator
	FNumber  [2]uint32
	ISO      uint16
}

const (
	typeShort    = 3
	typeLong     = 4
	typeASCII    = 2
	typeRational = 5

	tagModel     = 0x0110
	tagExifIFD   = 0x8769
	tagExposure  = 0x829a
	tagFNumber   = 0x829d
	tagISO       = 0x8827
	tagLensModel = 0xa434
)

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

var order = binary.LittleEndian

// TIFF returns a little endian TIFF structure holding cam's tags.
func TIFF(cam Camera) []byte {
	var ifd0, exifIFD []entry

	if cam.Model != "" {
		ifd0 = append(ifd0, ascii(tagModel, cam.Model))
	}

	if cam.Exposure[1] != 0 {
		exifIFD = append(exifIFD, rational(tagExposure, cam.Exposure))
	}
	if cam.FNumber[1] != 0 {
		exifIFD = append(exifIFD, rational(tagFNumber, cam.FNumber))
	}
	if cam.ISO != 0 {
		data := make([]byte, 2)
		order.PutUint16(data, cam.ISO)
		exifIFD = append(exifIFD, entry{tag: tagISO, typ: typeShort, count: 1, data: data})
	}
	if cam.Lens != "" {
		exifIFD = append(exifIFD, ascii(tagLensModel, cam.Lens))
	}

	const headerSize = 8
	ifd0Size := ifdSize(len(ifd0)+1, ifd0)
	exifOffset := uint32(headerSize + ifd0Size)

	pointer := make([]byte, 4)
	order.PutUint32(pointer, exifOffset)
	ifd0 = append(ifd0, entry{tag: tagExifIFD, typ: typeLong, count: 1, data: pointer})

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, order, uint16(42))
	binary.Write(&buf, order, uint32(headerSize))

	writeIFD(&buf, headerSize, ifd0)
	writeIFD(&buf, exifOffset, exifIFD)

	return buf.Bytes()
}

// JPEG encodes img and inserts an APP1 EXIF segment built from cam right
// after the start-of-image marker.
func JPEG(img image.Image, cam Camera) ([]byte, error) {
	var encoded bytes.Buffer
	err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 90})
	if err != nil {
		return nil, err
	}

	payload := append([]byte("Exif\x00\x00"), TIFF(cam)...)

	var out bytes.Buffer
	out.Write(encoded.Bytes()[:2])
	out.Write([]byte{0xff, 0xe1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(encoded.Bytes()[2:])

	return out.Bytes(), nil
}

//--------------------------------------------------------------------------------
// private

func ascii(tag uint16, s string) entry {
	data := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(data)), data: data}
}

func rational(tag uint16, v [2]uint32) entry {
	data := make([]byte, 8)
	order.PutUint32(data, v[0])
	order.PutUint32(data[4:], v[1])
	return entry{tag: tag, typ: typeRational, count: 1, data: data}
}

func padded(n int) int {
	return n + n%2
}

func ifdSize(n int, entries []entry) int {
	size := 2 + 12*n + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			size += padded(len(e.data))
		}
	}
	return size
}

// writeIFD expects entries sorted by tag and buf to already be offset bytes
// long.
func writeIFD(buf *bytes.Buffer, offset uint32, entries []entry) {
	dataOffset := offset + uint32(2+12*len(entries)+4)

	binary.Write(buf, order, uint16(len(entries)))

	var data bytes.Buffer
	for _, e := range entries {
		binary.Write(buf, order, e.tag)
		binary.Write(buf, order, e.typ)
		binary.Write(buf, order, e.count)

		if len(e.data) <= 4 {
			value := make([]byte, 4)
			copy(value, e.data)
			buf.Write(value)
			continue
		}

		binary.Write(buf, order, dataOffset+uint32(data.Len()))
		data.Write(e.data)
		if len(e.data)%2 == 1 {
			data.WriteByte(0)
		}
	}

	binary.Write(buf, order, uint32(0)) // no next IFD
	buf.Write(data.Bytes())
}
