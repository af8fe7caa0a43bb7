package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mituwo-320/asket-entry/models"
)

// ScheduleSnapshot is the public, cacheable copy of a tournament timetable.
type ScheduleSnapshot struct {
	TournamentID string                 `json:"tournament_id"`
	GeneratedAt  time.Time              `json:"generated_at"`
	Matches      []models.Match         `json:"matches"`
	Events       []models.ScheduleEvent `json:"events"`
}

// SnapshotPublisher выгружает расписание турнира в хранилище для статической раздачи.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snapshot ScheduleSnapshot) (string, error)
	// Withdraw убирает опубликованное расписание, например после перегенерации матчей.
	Withdraw(ctx context.Context, tournamentID string) error
}

func SnapshotKey(tournamentID string) string {
	return "schedules/" + tournamentID + ".json"
}

type uploaderSnapshotPublisher struct {
	uploader FileUploader
}

func NewSnapshotPublisher(uploader FileUploader) SnapshotPublisher {
	if uploader == nil {
		return noopSnapshotPublisher{}
	}
	return &uploaderSnapshotPublisher{uploader: uploader}
}

func (p *uploaderSnapshotPublisher) Publish(ctx context.Context, snapshot ScheduleSnapshot) (string, error) {
	if snapshot.Matches == nil {
		snapshot.Matches = []models.Match{}
	}
	if snapshot.Events == nil {
		snapshot.Events = []models.ScheduleEvent{}
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode schedule snapshot: %w", err)
	}

	result, err := p.uploader.Upload(ctx, SnapshotKey(snapshot.TournamentID), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}

func (p *uploaderSnapshotPublisher) Withdraw(ctx context.Context, tournamentID string) error {
	return p.uploader.Delete(ctx, SnapshotKey(tournamentID))
}

type noopSnapshotPublisher struct{}

func (noopSnapshotPublisher) Publish(context.Context, ScheduleSnapshot) (string, error) {
	return "", nil
}

func (noopSnapshotPublisher) Withdraw(context.Context, string) error {
	return nil
}
