package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

type fakeStore struct {
	profile   *types.UserProfile
	lastPatch map[string]any
	getErr    error
	upsertErr error
}

func (f *fakeStore) GetProfile(_ context.Context, _ string) (*types.UserProfile, error) {
	return f.profile, f.getErr
}

func (f *fakeStore) UpsertProfile(_ context.Context, _ string, patch map[string]any) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.lastPatch = patch
	return nil
}

type fakeFiles struct {
	lastKey         string
	lastContentType string
	lastData        []byte
	err             error
}

func (f *fakeFiles) Put(_ context.Context, key, contentType string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.lastKey = key
	f.lastContentType = contentType
	f.lastData = data
	return nil
}

func (f *fakeFiles) PublicURL(key string) string {
	return "https://files.example/" + key
}

func TestGet_AbsentProfileYieldsEmptyProfile(t *testing.T) {
	svc := NewService(&fakeStore{profile: nil}, &fakeFiles{})

	p, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p == nil {
		t.Fatal("expected an empty profile, got nil")
	}
	if len(p.Skills) != 0 || p.CareerGoals != "" {
		t.Errorf("profile = %+v, want zero value", p)
	}
}

func TestUpdate_PatchOnlyCarriesSuppliedFields(t *testing.T) {
	store := &fakeStore{profile: &types.UserProfile{Skills: []string{"Go"}, CareerGoals: "existing"}}
	svc := NewService(store, &fakeFiles{})

	_, err := svc.Update(context.Background(), "u1", types.UserProfile{Skills: []string{"Go", "SQL"}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, ok := store.lastPatch["skills"]; !ok {
		t.Error("patch should carry the supplied skills field")
	}
	if _, ok := store.lastPatch["careerGoals"]; ok {
		t.Error("patch must not carry unset fields; merge is field-level")
	}
}

func TestUpdate_InvalidWorkModelRejected(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeFiles{})

	patch := types.UserProfile{
		JobPreferences: &types.JobPreferences{WorkModels: []string{"Telepathic"}},
	}
	_, err := svc.Update(context.Background(), "u1", patch)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want validator.ValidationErrors", err)
	}
}

func TestUploadFile_PictureStoresPublicURL(t *testing.T) {
	store := &fakeStore{}
	files := &fakeFiles{}
	svc := NewService(store, files)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	loc, err := svc.UploadFile(context.Background(), "u1", FilePicture, "me.png", "image/png", []byte{1, 2})
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	wantKey := "profile-pictures/u1/1700000000000-me.png"
	if files.lastKey != wantKey {
		t.Errorf("key = %q, want %q", files.lastKey, wantKey)
	}
	if !strings.HasPrefix(loc, "https://files.example/") {
		t.Errorf("location = %q, want public URL", loc)
	}
	if store.lastPatch["profilePictureUrl"] != loc {
		t.Errorf("profile patch = %v, want profilePictureUrl recorded", store.lastPatch)
	}
}

func TestUploadFile_ResumeStoresPrivateKey(t *testing.T) {
	store := &fakeStore{}
	files := &fakeFiles{}
	svc := NewService(store, files)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	loc, err := svc.UploadFile(context.Background(), "u1", FileResume, "cv.pdf", "application/pdf", []byte{1})
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if strings.HasPrefix(loc, "https://") {
		t.Errorf("resume location = %q, want object key not URL", loc)
	}
	if store.lastPatch["resumePath"] != loc {
		t.Errorf("profile patch = %v, want resumePath recorded", store.lastPatch)
	}
}

func TestUploadFile_EmptyUploadRejected(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeFiles{})

	if _, err := svc.UploadFile(context.Background(), "u1", FilePicture, "me.png", "image/png", nil); err == nil {
		t.Fatal("expected empty upload to be rejected")
	}
}

func TestUploadFile_StoreFailureDoesNotRecordLocation(t *testing.T) {
	store := &fakeStore{}
	files := &fakeFiles{err: errors.New("bucket unavailable")}
	svc := NewService(store, files)

	if _, err := svc.UploadFile(context.Background(), "u1", FileResume, "cv.pdf", "application/pdf", []byte{1}); err == nil {
		t.Fatal("expected storage failure to propagate")
	}
	if store.lastPatch != nil {
		t.Error("profile must not reference a file that failed to store")
	}
}
