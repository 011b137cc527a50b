package out

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scanmask/internal/modules/timeline/dto"
	timelineout "scanmask/internal/modules/timeline/port/out"
	"scanmask/internal/platform/clock"
	"scanmask/internal/platform/slug"
)

const (
	SynthSampleRate = 16000
	synthBitDepth   = 16
	synthChannels   = 1
	wavHeaderBytes  = 44
)

type gainPoint struct {
	at   time.Time
	gain float64
}

// SynthSink synthesizes the masking sound instead of playing a file. It
// records the gain envelope while playing and renders it to a mono 16-bit
// WAV file when stopped.
type SynthSink struct {
	mu        sync.Mutex
	clock     clock.Clock
	dir       string
	log       *slog.Logger
	seed      uint64
	level     float64
	playing   bool
	track     dto.Track
	startedAt time.Time
	points    []gainPoint
	last      string
}

func NewSynthSink(clk clock.Clock, dir string, log *slog.Logger, seed uint64) *SynthSink {
	return &SynthSink{clock: clk, dir: dir, log: log, seed: seed}
}

var _ timelineout.AudioSink = (*SynthSink)(nil)

func (s *SynthSink) Play(track dto.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.playing = true
	s.track = track
	s.startedAt = now
	s.points = []gainPoint{{at: now, gain: s.level}}
	return nil
}

func (s *SynthSink) SetVolume(level float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = math.Max(0, math.Min(1, level))
	if s.playing {
		s.points = append(s.points, gainPoint{at: s.clock.Now(), gain: s.level})
	}
	return nil
}

func (s *SynthSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return nil
	}
	s.playing = false
	end := s.clock.Now()
	samples := s.render(end)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create render dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.wav", s.startedAt.Format("20060102-150405"), slug.Make(s.track.Name))
	path := filepath.Join(s.dir, name)
	if err := writeWAV(path, samples); err != nil {
		return err
	}
	s.last = path
	s.log.Info("masking audio rendered", "path", path, "seconds", float64(len(samples))/SynthSampleRate)
	return nil
}

// LastRender returns the path of the most recent WAV file, if any.
func (s *SynthSink) LastRender() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *SynthSink) render(end time.Time) []int16 {
	total := int(end.Sub(s.startedAt).Seconds() * SynthSampleRate)
	if total <= 0 {
		return nil
	}
	out := make([]int16, total)
	gen := newGenerator(s.track, s.seed)
	point := 0
	for i := range out {
		at := s.startedAt.Add(time.Duration(i) * time.Second / SynthSampleRate)
		for point+1 < len(s.points) && !s.points[point+1].at.After(at) {
			point++
		}
		v := gen.next() * s.points[point].gain
		out[i] = int16(math.Round(math.Max(-1, math.Min(1, v)) * math.MaxInt16))
	}
	return out
}

type generator struct {
	kind  string
	rng   *rand.Rand
	phase float64
	step  float64
	brown float64
}

func newGenerator(track dto.Track, seed uint64) *generator {
	freq := track.BaseFrequencyHz
	if freq <= 0 {
		freq = 440
	}
	return &generator{
		kind: track.SoundType,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		step: 2 * math.Pi * freq / SynthSampleRate,
	}
}

// next returns one sample in [-1,1]: white noise for white_noise, a sine at
// the base frequency for music, and integrated (brown) noise otherwise.
func (g *generator) next() float64 {
	switch g.kind {
	case "white_noise":
		return g.rng.Float64()*2 - 1
	case "music":
		v := math.Sin(g.phase)
		g.phase += g.step
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
		return v
	default:
		white := g.rng.Float64()*2 - 1
		g.brown = (g.brown + 0.02*white) / 1.02
		return g.brown * 3.5
	}
}

func writeWAV(path string, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	w := bufio.NewWriter(f)
	dataBytes := uint32(len(samples) * synthBitDepth / 8)
	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(wavHeaderBytes - 8 + dataBytes),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1),
		uint16(synthChannels),
		uint32(SynthSampleRate),
		uint32(SynthSampleRate * synthChannels * synthBitDepth / 8),
		uint16(synthChannels * synthBitDepth / 8),
		uint16(synthBitDepth),
		[4]byte{'d', 'a', 't', 'a'},
		dataBytes,
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			_ = f.Close()
			return fmt.Errorf("write wav header: %w", err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		_ = f.Close()
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}
