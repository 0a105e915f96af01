package models

import "time"

// User represents an account on the VidTube platform. Usernames are stored
// lowercase and both username and email are unique at the store.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	AvatarURL     string
	CoverImageURL string
	PasswordHash  string
	PasswordSalt  string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Public strips credential fields before the user is serialised in a response.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

// PublicUser is the profile shape exposed by the API.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"userName"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Video is an uploaded clip owned by a user. Views only ever increase.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	Published    bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Comment is a viewer remark attached to a video.
type Comment struct {
	ID        string
	VideoID   string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// Subscription records that subscriber follows channel. At most one row may
// exist per (subscriber, channel) pair.
type Subscription struct {
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// ChannelProfile is the aggregated channel view: a public profile annotated
// with follower counts and whether the current viewer follows the channel.
type ChannelProfile struct {
	PublicUser
	Subscribers  int64 `json:"subscribers"`
	SubscribedTo int64 `json:"subscribedTo"`
	IsSubscribed bool  `json:"isSubscribed"`
}

// FeedVideo is a published video joined with its owner's public profile,
// the owner's subscriber count, and the viewer's follow state.
type FeedVideo struct {
	Video
	OwnerUsername    string `json:"ownerUserName"`
	OwnerFullName    string `json:"ownerFullName"`
	OwnerAvatarURL   string `json:"ownerAvatar"`
	OwnerSubscribers int64  `json:"ownerSubscribers"`
	IsSubscribed     bool   `json:"isSubscribed"`
}

// WatchedVideo is a watch-history entry joined with the video and its owner.
type WatchedVideo struct {
	Video
	OwnerUsername  string    `json:"ownerUserName"`
	OwnerAvatarURL string    `json:"ownerAvatar"`
	WatchedAt      time.Time `json:"watchedAt"`
}

// CommentView is a comment joined with the author's username and avatar.
type CommentView struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"userName"`
	AvatarURL string    `json:"avatar"`
}

// ChannelListing annotates a user with their subscriber count and whether the
// viewer currently follows them.
type ChannelListing struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AvatarURL    string `json:"avatar"`
	Subscribers  int64  `json:"subscribers"`
	IsSubscribed bool   `json:"isSubscribed"`
}

// TokenPair groups the signed credentials issued to authenticated users.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
