package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

type fakeUserStore struct {
	users map[string]models.User

	createErr error
	updateErr error

	watches [][2]string
	history []models.WatchedVideo
	profile models.ChannelProfile

	profileErr error
	watchErr   error
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) UpdateRefreshToken(_ context.Context, userID, refreshToken string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = refreshToken
	s.users[userID] = user
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, userID, hash, salt string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.PasswordHash = hash
	user.PasswordSalt = salt
	s.users[userID] = user
	return nil
}

func (s *fakeUserStore) UpdateAvatar(_ context.Context, userID, avatarURL string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.AvatarURL = avatarURL
	s.users[userID] = user
	return nil
}

func (s *fakeUserStore) RecordWatch(_ context.Context, userID, videoID string) error {
	if s.watchErr != nil {
		return s.watchErr
	}
	s.watches = append(s.watches, [2]string{userID, videoID})
	return nil
}

func (s *fakeUserStore) ChannelProfile(_ context.Context, username, _ string) (models.ChannelProfile, error) {
	if s.profileErr != nil {
		return models.ChannelProfile{}, s.profileErr
	}
	if s.profile.Username != username {
		return models.ChannelProfile{}, repositories.ErrNotFound
	}
	return s.profile, nil
}

func (s *fakeUserStore) WatchHistory(_ context.Context, _ string) ([]models.WatchedVideo, error) {
	return s.history, nil
}

type fakeVideoStore struct {
	videos    map[string]models.Video
	feed      []models.FeedVideo
	createErr error
	listErr   error
}

func newFakeVideoStore(videos ...models.Video) *fakeVideoStore {
	s := &fakeVideoStore{videos: make(map[string]models.Video)}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) ListByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Video
	for _, v := range s.videos {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVideoStore) ListPublished(_ context.Context, _ string) ([]models.FeedVideo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.feed, nil
}

func (s *fakeVideoStore) IncrementViews(_ context.Context, videoID string) (int64, error) {
	video, ok := s.videos[videoID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	video.Views++
	s.videos[videoID] = video
	return video.Views, nil
}

type fakeCommentStore struct {
	comments  map[string][]models.CommentView
	createErr error
	username  string
	avatarURL string
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[string][]models.CommentView)}
}

func (s *fakeCommentStore) Create(_ context.Context, comment models.Comment) (models.CommentView, error) {
	if s.createErr != nil {
		return models.CommentView{}, s.createErr
	}
	view := models.CommentView{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Username:  s.username,
		AvatarURL: s.avatarURL,
	}
	s.comments[comment.VideoID] = append(s.comments[comment.VideoID], view)
	return view, nil
}

func (s *fakeCommentStore) ListForVideo(_ context.Context, videoID string) ([]models.CommentView, error) {
	return s.comments[videoID], nil
}

type fakeSubscriptionStore struct {
	subscribed map[string]bool
	listings   []models.ChannelListing
	toggleErr  error
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subscribed: make(map[string]bool)}
}

func (s *fakeSubscriptionStore) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	key := subscriberID + "/" + channelID
	s.subscribed[key] = !s.subscribed[key]
	return s.subscribed[key], nil
}

func (s *fakeSubscriptionStore) ChannelsForViewer(_ context.Context, _ string) ([]models.ChannelListing, error) {
	return s.listings, nil
}

type fakeMediaStore struct {
	saved   map[string][]byte
	saveErr error
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{saved: make(map[string][]byte)}
}

func (s *fakeMediaStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.saved[name] = data
	return "https://media.test/" + name, nil
}

type fakeProber struct {
	duration float64
	err      error
}

func (p fakeProber) Duration(_ context.Context, _ string) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.duration, nil
}

type stubLimiter struct {
	allow bool
}

func (l stubLimiter) Allow(string) bool { return l.allow }

func testViewer() models.PublicUser {
	return models.PublicUser{
		ID:        "user-1",
		Username:  "alice",
		Email:     "alice@example.com",
		FullName:  "Alice Anders",
		AvatarURL: "https://media.test/avatars/alice.png",
		CreatedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func withViewer(r *http.Request, viewer models.PublicUser) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), viewer))
}

type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody() *multipartBody {
	b := &multipartBody{}
	b.writer = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBody) field(name, value string) *multipartBody {
	_ = b.writer.WriteField(name, value)
	return b
}

func (b *multipartBody) file(field, filename string, contents []byte) *multipartBody {
	part, err := b.writer.CreateFormFile(field, filename)
	if err != nil {
		panic(fmt.Sprintf("create form file: %v", err))
	}
	_, _ = part.Write(contents)
	return b
}

func (b *multipartBody) request(method, target string) *http.Request {
	_ = b.writer.Close()
	r, err := http.NewRequest(method, target, bytes.NewReader(b.buf.Bytes()))
	if err != nil {
		panic(fmt.Sprintf("build request: %v", err))
	}
	r.Header.Set("Content-Type", b.writer.FormDataContentType())
	return r
}
