package auth

import (
	"testing"

	"toolcrib/apperr"
	"toolcrib/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipient(t *testing.T) *models.User {
	t.Helper()
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	return &models.User{
		ID:           "user-a",
		Username:     "Worker",
		Email:        "worker@plant.example",
		QRCode:       "TC-badge-a",
		PasswordHash: hash,
	}
}

func TestConfirmRecipientManual(t *testing.T) {
	recipient := testRecipient(t)

	t.Run("username plus password", func(t *testing.T) {
		err := ConfirmRecipient(recipient, nil, Confirmation{
			Method: MethodManual, Identifier: "worker", Password: "s3cret-pass",
		})
		assert.NoError(t, err)
	})

	t.Run("email plus password", func(t *testing.T) {
		err := ConfirmRecipient(recipient, nil, Confirmation{
			Method: MethodManual, Identifier: "WORKER@plant.example", Password: "s3cret-pass",
		})
		assert.NoError(t, err)
	})

	// 口令错和账号错必须长得一样，不能泄露是哪个因素失败
	t.Run("wrong password fails generically", func(t *testing.T) {
		err := ConfirmRecipient(recipient, nil, Confirmation{
			Method: MethodManual, Identifier: "worker", Password: "wrong",
		})
		assert.ErrorIs(t, err, apperr.ErrConfirmationFailed)
	})

	t.Run("wrong identifier fails generically", func(t *testing.T) {
		err := ConfirmRecipient(recipient, nil, Confirmation{
			Method: MethodManual, Identifier: "somebody-else", Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, apperr.ErrConfirmationFailed)
	})
}

func TestConfirmRecipientQRCode(t *testing.T) {
	recipient := testRecipient(t)

	t.Run("own badge authorizes", func(t *testing.T) {
		err := ConfirmRecipient(recipient, recipient, Confirmation{
			Method: MethodQRCode, QRCode: recipient.QRCode,
		})
		assert.NoError(t, err)
	})

	t.Run("someone elses badge never authorizes", func(t *testing.T) {
		other := &models.User{ID: "user-b", QRCode: "TC-badge-b"}
		err := ConfirmRecipient(recipient, other, Confirmation{
			Method: MethodQRCode, QRCode: other.QRCode,
		})
		assert.ErrorIs(t, err, apperr.ErrQRCodeMismatch)
	})

	t.Run("unknown badge fails", func(t *testing.T) {
		err := ConfirmRecipient(recipient, nil, Confirmation{
			Method: MethodQRCode, QRCode: "TC-unknown",
		})
		assert.ErrorIs(t, err, apperr.ErrConfirmationFailed)
	})
}

func TestConfirmationValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      Confirmation
		wantErr bool
	}{
		{"manual complete", Confirmation{Method: MethodManual, Identifier: "x", Password: "y"}, false},
		{"manual missing password", Confirmation{Method: MethodManual, Identifier: "x"}, true},
		{"manual missing identifier", Confirmation{Method: MethodManual, Password: "y"}, true},
		{"qrcode complete", Confirmation{Method: MethodQRCode, QRCode: "TC-1"}, false},
		{"qrcode missing code", Confirmation{Method: MethodQRCode}, true},
		{"unknown method", Confirmation{Method: "voice"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
