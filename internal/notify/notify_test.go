package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EscapesInput(t *testing.T) {
	html, err := Render(WinnerNotice{Name: "<b>Eve</b>", ProductTitle: "Vase", Price: 142.5})
	require.NoError(t, err)

	assert.Contains(t, html, "&lt;b&gt;Eve&lt;/b&gt;")
	assert.Contains(t, html, "<strong>Vase</strong>")
	assert.Contains(t, html, "Rs.142.50")
}

func TestSMTPMailer_NotifyWinner(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m := NewSMTPMailer(SMTPConfig{Host: "mail.local", Port: 2525, FromName: "Auction", FromEmail: "noreply@auction.local"})
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.NotifyWinner(context.Background(), WinnerNotice{Email: "b@example.com", Name: "Bea", ProductTitle: "Vase", Price: 150})
	require.NoError(t, err)

	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, "noreply@auction.local", gotFrom)
	assert.Equal(t, []string{"b@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: "+subject)
	assert.Contains(t, string(gotMsg), "Content-Type: text/html")
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "mail.local", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }

	err := m.NotifyWinner(context.Background(), WinnerNotice{})
	assert.ErrorIs(t, err, ErrNoRecipient)

	err = m.NotifyWinner(context.Background(), WinnerNotice{Email: "b@example.com"})
	assert.ErrorContains(t, err, "relay down")
}
