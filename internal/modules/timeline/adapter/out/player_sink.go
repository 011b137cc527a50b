package out

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"scanmask/internal/modules/timeline/dto"
	timelineout "scanmask/internal/modules/timeline/port/out"
)

// PlayerSink hands the profile's sound file to an external player process.
// The player receives the volume once, at launch; later changes are only
// recorded because external players expose no live volume control.
type PlayerSink struct {
	mu       sync.Mutex
	command  string
	args     []string
	soundDir string
	log      *slog.Logger
	level    float64
	proc     *os.Process
}

func NewPlayerSink(command string, args []string, soundDir string, log *slog.Logger) *PlayerSink {
	if len(args) == 0 {
		args = []string{"{file}"}
	}
	return &PlayerSink{command: command, args: args, soundDir: soundDir, log: log}
}

var _ timelineout.AudioSink = (*PlayerSink)(nil)

func (p *PlayerSink) Play(track dto.Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killLocked()

	file := track.FilePath
	if file != "" && !filepath.IsAbs(file) {
		file = filepath.Join(p.soundDir, file)
	}
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("sound file for %q: %w", track.Name, err)
	}

	cmd := exec.Command(p.command, expandArgs(p.args, file, p.level)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	p.proc = cmd.Process
	log := p.log
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("player exited", "command", p.command, "error", err)
		}
	}()
	return nil
}

func (p *PlayerSink) SetVolume(level float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.proc != nil && math.Abs(level-p.level) > 0.005 {
		p.log.Debug("player volume change recorded", "from", p.level, "to", level)
	}
	p.level = level
	return nil
}

func (p *PlayerSink) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killLocked()
}

func (p *PlayerSink) killLocked() error {
	if p.proc == nil {
		return nil
	}
	proc := p.proc
	p.proc = nil
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stop player: %w", err)
	}
	return nil
}

func expandArgs(args []string, file string, level float64) []string {
	out := make([]string, 0, len(args))
	r := strings.NewReplacer(
		"{file}", file,
		"{volume}", strconv.FormatFloat(level, 'f', 2, 64),
		"{volume100}", strconv.Itoa(int(math.Round(level*100))),
	)
	for _, a := range args {
		out = append(out, r.Replace(a))
	}
	return out
}
