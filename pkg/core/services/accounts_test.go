package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/auth"
	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

type fakeCredentialStore struct {
	actors map[model.ActorKind]map[string]model.Actor
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		actors: map[model.ActorKind]map[string]model.Actor{
			model.KindPatient:   {},
			model.KindCaregiver: {},
		},
	}
}

func (s *fakeCredentialStore) UsernameExists(ctx context.Context, kind model.ActorKind, username string) (bool, error) {
	_, ok := s.actors[kind][username]
	return ok, nil
}

func (s *fakeCredentialStore) CreateActor(ctx context.Context, actor model.Actor) error {
	if _, ok := s.actors[actor.Kind][actor.Username]; ok {
		return ErrDuplicateUsername
	}
	s.actors[actor.Kind][actor.Username] = actor
	return nil
}

func (s *fakeCredentialStore) GetActor(ctx context.Context, kind model.ActorKind, username string) (*model.Actor, error) {
	actor, ok := s.actors[kind][username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &actor, nil
}

func TestCreateAccount(t *testing.T) {
	store := newFakeCredentialStore()

	err := CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "p1", "secret1pw")
	require.NoError(t, err)

	actor := store.actors[model.KindPatient]["p1"]
	assert.Equal(t, "p1", actor.Username)
	assert.NotEmpty(t, actor.Salt)
	assert.True(t, auth.Verify("secret1pw", actor.Salt, actor.PasswordHash))
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	store := newFakeCredentialStore()
	require.NoError(t, CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "p1", "secret1pw"))

	err := CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "p1", "other2pw1")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestCreateAccount_NamespacesAreIndependent(t *testing.T) {
	store := newFakeCredentialStore()
	require.NoError(t, CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "sam", "secret1pw"))

	// a caregiver may share a patient's username
	err := CreateAccount(context.Background(), store, zap.NewNop(), model.KindCaregiver, "sam", "secret1pw")
	assert.NoError(t, err)
}

func TestCreateAccount_WeakPassword(t *testing.T) {
	store := newFakeCredentialStore()

	err := CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "p1", "short")
	assert.Error(t, err)
	assert.Empty(t, store.actors[model.KindPatient])
}

func TestLogin(t *testing.T) {
	store := newFakeCredentialStore()
	require.NoError(t, CreateAccount(context.Background(), store, zap.NewNop(), model.KindCaregiver, "cg1", "secret1pw"))

	sess := session.New()
	err := Login(context.Background(), store, sess, zap.NewNop(), model.KindCaregiver, "cg1", "secret1pw")
	require.NoError(t, err)

	kind, username, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, model.KindCaregiver, kind)
	assert.Equal(t, "cg1", username)
}

func TestLogin_UniformFailure(t *testing.T) {
	store := newFakeCredentialStore()
	require.NoError(t, CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "p1", "secret1pw"))

	sess := session.New()

	// unknown username and wrong password fail identically
	wrongUser := Login(context.Background(), store, sess, zap.NewNop(), model.KindPatient, "nobody", "secret1pw")
	wrongPass := Login(context.Background(), store, sess, zap.NewNop(), model.KindPatient, "p1", "wrong2pw1")

	assert.ErrorIs(t, wrongUser, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.Equal(t, wrongUser.Error(), wrongPass.Error())

	_, _, ok := sess.Current()
	assert.False(t, ok)
}

func TestLogin_RefusedWhileSessionActive(t *testing.T) {
	store := newFakeCredentialStore()
	require.NoError(t, CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "p1", "secret1pw"))
	require.NoError(t, CreateAccount(context.Background(), store, zap.NewNop(), model.KindPatient, "p2", "secret1pw"))

	sess := session.New()
	require.NoError(t, Login(context.Background(), store, sess, zap.NewNop(), model.KindPatient, "p1", "secret1pw"))

	err := Login(context.Background(), store, sess, zap.NewNop(), model.KindPatient, "p2", "secret1pw")
	assert.ErrorIs(t, err, session.ErrAlreadyLoggedIn)

	// the existing session is untouched
	_, username, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, "p1", username)
}

func TestLogout(t *testing.T) {
	sess := session.New()
	assert.ErrorIs(t, Logout(sess, zap.NewNop()), session.ErrNotLoggedIn)

	require.NoError(t, sess.Login(model.KindPatient, "p1"))
	require.NoError(t, Logout(sess, zap.NewNop()))

	_, _, ok := sess.Current()
	assert.False(t, ok)
}
