package music

import "layeh.com/gopus"

// opusEncoder wraps a gopus.Encoder set to 48kHz stereo, the sample format
// Discord voice expects.
type opusEncoder struct {
	encoder *gopus.Encoder
}

func newOpusEncoder() (*opusEncoder, error) {
	enc, err := gopus.NewEncoder(48000, 2, gopus.Audio)
	if err != nil {
		return nil, err
	}
	return &opusEncoder{encoder: enc}, nil
}

// encode converts one 20ms frame of 16-bit little-endian PCM into Opus.
func (oe *opusEncoder) encode(pcm []byte) ([]byte, error) {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(pcm[2*i]) | int16(pcm[2*i+1])<<8
	}

	// 960 samples per channel at 48kHz = 20ms of audio
	return oe.encoder.Encode(samples, 960, 4000)
}
