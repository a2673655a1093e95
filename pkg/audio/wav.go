package audio

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"io"
)

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// parseWAV parses a PCM WAV file and returns the format and audio data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	// RIFF header: "RIFF" <size> "WAVE"
	header := make([]byte, 12)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, nil, fmt.Errorf("reading RIFF header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, nil, stderrors.New("not a RIFF/WAVE file")
	}

	var format *wavFormat

	// Read chunks until the data chunk
	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil, nil, stderrors.New("no data chunk")
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			if chunkSize < 16 {
				return nil, nil, fmt.Errorf("fmt chunk too short: %d bytes", chunkSize)
			}
			var fmtChunk struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &fmtChunk); err != nil {
				return nil, nil, err
			}
			if fmtChunk.AudioFormat != 1 {
				return nil, nil, fmt.Errorf("unsupported WAV encoding %d (only PCM)", fmtChunk.AudioFormat)
			}
			format = &wavFormat{
				SampleRate: int(fmtChunk.SampleRate),
				Channels:   int(fmtChunk.NumChannels),
				BitDepth:   int(fmtChunk.BitsPerSample),
			}

			// Skip any extra format bytes
			if remaining := int64(chunkSize) - 16; remaining > 0 {
				if _, err := reader.Seek(remaining, io.SeekCurrent); err != nil {
					return nil, nil, err
				}
			}

		case "data":
			if format == nil {
				return nil, nil, stderrors.New("data chunk before fmt chunk")
			}
			size := int(chunkSize)
			if size > reader.Len() {
				size = reader.Len() // truncated files play what they have
			}
			audioData := make([]byte, size)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return nil, nil, err
			}
			return format, audioData, nil

		default:
			// Skip unknown chunk, chunks are padded to an even size
			skip := int64(chunkSize) + int64(chunkSize%2)
			if _, err := reader.Seek(skip, io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		}
	}
}
