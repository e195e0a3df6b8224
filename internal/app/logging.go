package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"announcement-dashboard/internal/logging"
)

// maxArchivedLogs bounds how many rotated log files are kept in logs/.
const maxArchivedLogs = 20

func configureLogging(logPath string) (*os.File, error) {
	started := time.Now().UTC()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if err := rotateExistingLog(logPath, started); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.SetDefaultWriter(io.MultiWriter(os.Stdout, file))
	return file, nil
}

// rotateExistingLog moves a non-empty log file into logs/ under a name
// derived from its own base name and the start time, then prunes old archives.
func rotateExistingLog(logPath string, started time.Time) error {
	info, err := os.Stat(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	archiveDir := filepath.Join(filepath.Dir(logPath), "logs")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("create log archive dir: %w", err)
	}

	stem := archiveStem(logPath)
	baseTimestamp := started.Format("2006-01-02_15-04-05")
	destPath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s.log", stem, baseTimestamp))
	for i := 1; ; i++ {
		if _, err := os.Stat(destPath); errors.Is(err, os.ErrNotExist) {
			break
		}
		destPath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s-%d.log", stem, baseTimestamp, i))
	}
	if err := os.Rename(logPath, destPath); err != nil {
		return fmt.Errorf("archive log file: %w", err)
	}
	return pruneArchives(archiveDir, stem, maxArchivedLogs)
}

func archiveStem(logPath string) string {
	base := filepath.Base(logPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// pruneArchives removes the oldest archives of stem beyond keep. Archive
// names sort chronologically.
func pruneArchives(dir, stem string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read log archive dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasPrefix(entry.Name(), stem+"-") {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("prune log archive: %w", err)
		}
	}
	return nil
}
