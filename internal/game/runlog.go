package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// RunLog records statistics gathered during one session.
type RunLog struct {
	Pack        string         `json:"pack"`
	Player      string         `json:"player"`
	Steps       int            `json:"steps"`
	Warps       int            `json:"warps"`
	MapsVisited map[string]int `json:"mapsVisited"` // map key → arrivals
	PlayTime    time.Duration  `json:"playTimeNs"`
	Ended       time.Time      `json:"ended"`
}

func newRunLog(pack, player, startMap string) RunLog {
	return RunLog{
		Pack:        pack,
		Player:      player,
		MapsVisited: map[string]int{startMap: 1},
	}
}

// record counts one completed move that ended on mapKey.
func (r *RunLog) record(mapKey, previous string, warped bool) {
	r.Steps++
	if warped {
		r.Warps++
	}
	if mapKey != previous {
		r.MapsVisited[mapKey]++
	}
}

// saveRunLog appends the completed run as a single JSON line to runs.jsonl.
func saveRunLog(log RunLog) error {
	dir, err := runLogDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// runLogDir returns the directory where run logs are stored.
// Follows XDG Base Directory spec: $XDG_DATA_HOME/tilemosaic,
// defaulting to ~/.local/share/tilemosaic.
func runLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tilemosaic"), nil
}
