package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stowage/internal/auth"
	"stowage/internal/config"
	"stowage/internal/domain"
	"stowage/internal/service"
	"stowage/mocks"
)

type testCLI struct {
	storage *mocks.MockStorageService
	notify  *mocks.MockNotificationService
	tokens  *auth.TokenManager
	a       *app
}

func newTestCLI() *testCLI {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "cli-secret", Issuer: "stowage", TokenExpiry: time.Hour}}
	tc := &testCLI{
		storage: new(mocks.MockStorageService),
		notify:  new(mocks.MockNotificationService),
		tokens:  auth.NewTokenManager(&cfg.JWT),
	}
	tc.a = &app{cfg: cfg, log: zap.NewNop(), storage: tc.storage, notify: tc.notify, tokens: tc.tokens}
	return tc
}

func (tc *testCLI) run(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd(tc.a)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBucketList(t *testing.T) {
	tc := newTestCLI()
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	tc.storage.On("ListBuckets", mock.Anything).Return([]domain.Bucket{{Name: "media", CreatedAt: created}}, nil)

	out, err := tc.run("bucket", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "media")
	assert.Contains(t, out, "2025-03-01T08:00:00Z")
}

func TestBucketCreate_ACLFlag(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("CreateBucket", mock.Anything, "vault", domain.ACLPrivate).Return(nil)

	out, err := tc.run("bucket", "create", "vault", "--acl", "private")
	require.NoError(t, err)
	assert.Equal(t, "created bucket vault\n", out)
	tc.storage.AssertExpectations(t)
}

func TestBucketCreate_RequiresName(t *testing.T) {
	tc := newTestCLI()
	_, err := tc.run("bucket", "create")
	assert.Error(t, err)
	assert.Empty(t, tc.storage.Calls)
}

func TestObjectPushDir_ReportsPartialCount(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("PushDirectory", mock.Anything, "./site", "media", "web/").Return(3, errors.New("one upload failed"))

	out, err := tc.run("object", "push-dir", "./site", "media", "--prefix", "web/")
	assert.EqualError(t, err, "one upload failed")
	assert.Equal(t, "uploaded 3 file(s) to media\n", out)
}

func TestObjectFetch(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("PutFromURL", mock.Anything, service.PutFromURLInput{
		Bucket:    "media",
		SourceURL: "https://example.com/logo.png",
		Key:       "logo.png",
		Folder:    "brand/",
	}).Return(&domain.StoredObject{Bucket: "media", Key: "brand/logo.png", Size: 12, Location: "https://media/brand/logo.png"}, nil)

	out, err := tc.run("object", "fetch", "media", "https://example.com/logo.png", "--key", "logo.png", "--folder", "brand/")
	require.NoError(t, err)
	assert.Contains(t, out, "stored media/brand/logo.png (12 bytes)")
	assert.Contains(t, out, "https://media/brand/logo.png")
}

func TestObjectFetch_KeyRequired(t *testing.T) {
	tc := newTestCLI()
	_, err := tc.run("object", "fetch", "media", "https://example.com/logo.png")
	assert.ErrorContains(t, err, `"key" not set`)
}

func TestObjectURL_Expiry(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("SignedURL", mock.Anything, "media", "a.txt", 90*time.Second).Return("https://signed", nil)

	out, err := tc.run("object", "url", "media", "a.txt", "--expiry", "90s")
	require.NoError(t, err)
	assert.Equal(t, "https://signed\n", out)
}

func TestObjectExistsAndSize(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("DoesObjectExist", mock.Anything, "media", "a.txt").Return(true, nil)
	tc.storage.On("FileSize", mock.Anything, "media", "a.txt").Return(int64(42), nil)

	out, err := tc.run("object", "exists", "media", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = tc.run("object", "size", "media", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestObjectDeleteMany(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("DeleteObjects", mock.Anything, "media", []string{"a", "b", "c"}).Return(3, nil)

	out, err := tc.run("object", "delete-many", "media", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, "deleted 3 of 3 object(s)\n", out)
}

func TestObjectExport_ToFile(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("ExportObjects", mock.Anything, "media", "", domain.ExportCSV, mock.Anything).
		Run(func(args mock.Arguments) {
			w := args.Get(4).(interface{ Write([]byte) (int, error) })
			_, _ = w.Write([]byte("Bucket,Key\n"))
		}).Return(nil)

	path := filepath.Join(t.TempDir(), "inventory.csv")
	_, err := tc.run("object", "export", "media", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Bucket,Key\n", string(data))
}

func TestFolderCommands(t *testing.T) {
	tc := newTestCLI()
	tc.storage.On("CreateFolder", mock.Anything, "media", "photos").Return("photos/", nil)
	tc.storage.On("DoesFolderExist", mock.Anything, "media", "", "photos").Return(true, nil)

	out, err := tc.run("folder", "create", "media", "photos")
	require.NoError(t, err)
	assert.Equal(t, "created photos/\n", out)

	out, err = tc.run("folder", "exists", "media", "", "photos")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestSMS(t *testing.T) {
	tc := newTestCLI()
	tc.notify.On("SendSMS", mock.Anything, service.SendSMSInput{
		PhoneNumber: "+15550100",
		Message:     "code 1234",
		Type:        domain.SMSTransactional,
	}).Return(&domain.PublishResult{MessageID: "m-9"}, nil)

	out, err := tc.run("sms", "+15550100", "code 1234")
	require.NoError(t, err)
	assert.Equal(t, "message id m-9\n", out)
}

func TestEmail_ServiceError(t *testing.T) {
	tc := newTestCLI()
	tc.notify.On("SendEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidArgument)

	_, err := tc.run("email", "ops@example.com", "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestToken_Validates(t *testing.T) {
	tc := newTestCLI()

	out, err := tc.run("token", "deploy-bot", "--ttl", "5m")
	require.NoError(t, err)

	claims, err := tc.tokens.Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "deploy-bot", claims.Subject)
}
