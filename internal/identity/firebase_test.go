package identity

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTokenVerifier struct {
	tokens map[string]*auth.Token
}

func (f *fakeTokenVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	tok, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("ID token has invalid signature")
	}
	return tok, nil
}

func TestFirebaseVerifier_Verify(t *testing.T) {
	v := newFirebaseVerifier(&fakeTokenVerifier{tokens: map[string]*auth.Token{
		"good":     {UID: "uid-1", Claims: map[string]interface{}{"email": "Reader@Example.com"}},
		"no-email": {UID: "uid-2", Claims: map[string]interface{}{}},
	}}, zap.NewNop())

	p, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &Principal{Email: "reader@example.com", Subject: "uid-1"}, p)

	_, err = v.Verify(context.Background(), "no-email")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = v.Verify(context.Background(), "forged")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = v.Verify(context.Background(), "")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
