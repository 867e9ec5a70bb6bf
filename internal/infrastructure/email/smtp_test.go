package email

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func newTestService(admins ...string) (*SMTPEmailService, *captureDialer) {
	d := &captureDialer{}
	svc := &SMTPEmailService{
		config: SMTPConfig{
			FromAddress: "noreply@fammo.test",
			FromName:    "FAMMO",
			BaseURL:     "https://fammo.test",
			AdminEmails: admins,
		},
		dialer: d,
	}
	return svc, d
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendActivationEmail(t *testing.T) {
	svc, d := newTestService()

	require.NoError(t, svc.SendActivationEmail("owner@example.com", "abc123"))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, d.sent[0].GetHeader("To"))
	body := render(t, d.sent[0])
	assert.Contains(t, body, "fammo.test/activate")
	assert.Contains(t, body, "abc123")
}

func TestSendClinicConfirmationEmail(t *testing.T) {
	svc, d := newTestService()

	require.NoError(t, svc.SendClinicConfirmationEmail("info@clinic.test", "Paws & Co", 12, "tok"))
	require.Len(t, d.sent, 1)
	assert.Contains(t, d.sent[0].GetHeader("Subject")[0], "Confirm your clinic email")
}

func TestNotifyAdminsClinicConfirmed(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		svc, d := newTestService()
		require.NoError(t, svc.NotifyAdminsClinicConfirmed("Paws", "a@b.test", "Utrecht"))
		assert.Empty(t, d.sent)
	})

	t.Run("sends to all admins", func(t *testing.T) {
		svc, d := newTestService("ops@fammo.test", "vet-team@fammo.test")
		require.NoError(t, svc.NotifyAdminsClinicConfirmed("Paws", "a@b.test", "Utrecht"))
		require.Len(t, d.sent, 1)
		assert.Equal(t, []string{"ops@fammo.test", "vet-team@fammo.test"}, d.sent[0].GetHeader("To"))
	})
}

func TestSendEmailFailure(t *testing.T) {
	svc, d := newTestService()
	d.err = errors.New("smtp down")

	err := svc.SendActivationEmail("owner@example.com", "abc")
	assert.ErrorContains(t, err, "smtp down")
}
