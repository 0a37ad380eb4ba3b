package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DownloadToken is the parsed form of a signed export download token. It
// binds the export job to the rendered artifact so a token for one job can
// never fetch another job's file.
type DownloadToken struct {
	JobID     string
	Artifact  string
	ExpiresAt time.Time
}

// Expired reports whether the token's validity window has passed.
func (t DownloadToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// DownloadSigner mints and verifies signed export download tokens. Exports
// are fetched without authentication (the token is the credential), so the
// token carries an HMAC over job id, artifact path and expiry.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewDownloadSigner constructs a signer with the provided secret and TTL.
func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DownloadSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Sign returns a download token for the job's rendered artifact.
func (s *DownloadSigner) Sign(jobID, artifact string) (string, time.Time, error) {
	if jobID == "" || artifact == "" {
		return "", time.Time{}, fmt.Errorf("jobID and artifact required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedArtifact := base64.RawURLEncoding.EncodeToString([]byte(artifact))
	ts := fmt.Sprintf("%d", expiresAt.Unix())
	signature := s.sign(jobID, ts, encodedArtifact)
	token := strings.Join([]string{jobID, ts, encodedArtifact, signature}, ".")
	return token, expiresAt, nil
}

// Verify checks the token signature and expiry and returns the embedded
// metadata. When allowExpired is true the expiry check is skipped; cleanup
// routines use that to locate artifacts of tokens past their window.
func (s *DownloadSigner) Verify(token string, allowExpired bool) (DownloadToken, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return DownloadToken{}, fmt.Errorf("malformed download token")
	}
	jobID, ts, encodedArtifact, signature := parts[0], parts[1], parts[2], parts[3]

	rawArtifact, err := base64.RawURLEncoding.DecodeString(encodedArtifact)
	if err != nil {
		return DownloadToken{}, fmt.Errorf("decode artifact path: %w", err)
	}

	expUnix, err := parseUnix(ts)
	if err != nil {
		return DownloadToken{}, err
	}

	expected := s.sign(jobID, ts, encodedArtifact)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return DownloadToken{}, fmt.Errorf("invalid token signature")
	}

	parsed := DownloadToken{
		JobID:     jobID,
		Artifact:  string(rawArtifact),
		ExpiresAt: time.Unix(expUnix, 0),
	}
	if !allowExpired && parsed.Expired() {
		return DownloadToken{}, fmt.Errorf("download token expired")
	}
	return parsed, nil
}

func (s *DownloadSigner) sign(jobID, ts, encodedArtifact string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(jobID + "|" + ts + "|" + encodedArtifact))
	return hex.EncodeToString(mac.Sum(nil))
}

func parseUnix(raw string) (int64, error) {
	var ts int64
	if _, err := fmt.Sscanf(raw, "%d", &ts); err != nil {
		return 0, fmt.Errorf("invalid timestamp")
	}
	return ts, nil
}
