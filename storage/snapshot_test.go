package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/mituwo-320/asket-entry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUploader struct {
	objects     map[string][]byte
	contentType map[string]string
	err         error
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, contentType: map[string]string{}}
}

func (m *memoryUploader) Upload(_ context.Context, key, contentType string, r io.Reader) (*UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.objects[key] = body
	m.contentType[key] = contentType
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *memoryUploader) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryUploader) GetPublicURL(key string) string {
	return PublicURL("https://cdn.example.com/cup", key)
}

func TestSnapshotPublisherUploadsJSON(t *testing.T) {
	up := newMemoryUploader()
	pub := NewSnapshotPublisher(up)

	location, err := pub.Publish(context.Background(), ScheduleSnapshot{
		TournamentID: "2026-spring",
		GeneratedAt:  time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		Matches:      []models.Match{{ID: "m_1", Time: "10:00", Court: "A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cup/schedules/2026-spring.json", location)
	assert.Equal(t, "application/json", up.contentType["schedules/2026-spring.json"])

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(up.objects["schedules/2026-spring.json"], &decoded))
	assert.Len(t, decoded["matches"], 1)
	assert.NotNil(t, decoded["events"])
}

func TestSnapshotPublisherPropagatesUploadError(t *testing.T) {
	up := newMemoryUploader()
	up.err = errors.New("bucket unavailable")

	_, err := NewSnapshotPublisher(up).Publish(context.Background(), ScheduleSnapshot{TournamentID: "x"})
	assert.EqualError(t, err, "bucket unavailable")
}

func TestSnapshotPublisherWithdrawDeletesObject(t *testing.T) {
	up := newMemoryUploader()
	pub := NewSnapshotPublisher(up)

	_, err := pub.Publish(context.Background(), ScheduleSnapshot{TournamentID: "2026-spring"})
	require.NoError(t, err)
	require.Contains(t, up.objects, "schedules/2026-spring.json")

	require.NoError(t, pub.Withdraw(context.Background(), "2026-spring"))
	assert.NotContains(t, up.objects, "schedules/2026-spring.json")
}

func TestNilUploaderPublishesNothing(t *testing.T) {
	pub := NewSnapshotPublisher(nil)
	location, err := pub.Publish(context.Background(), ScheduleSnapshot{TournamentID: "x"})
	assert.NoError(t, err)
	assert.Empty(t, location)
	assert.NoError(t, pub.Withdraw(context.Background(), "x"))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a/b.json", PublicURL("https://cdn.example.com", "a/b.json"))
	assert.Equal(t, "https://cdn.example.com/x/a.json", PublicURL("https://cdn.example.com/x/", "/a.json"))
	assert.Empty(t, PublicURL("", "a.json"))
	assert.Empty(t, PublicURL("https://cdn.example.com", ""))
}
