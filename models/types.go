package models

import "time"

// Error kind constants, stable across releases for API clients
const (
	KindValidation   = "validation_error"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
	KindSelfLike     = "self_like"
	KindQuota        = "quota_exceeded"
	KindDuplicate    = "duplicate_like"
)

// Request types

type RegisterRequest struct {
	InvitationCode string `json:"invitation_code"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Bio            string `json:"bio"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ToggleLikeRequest struct {
	TargetUserID string `json:"target_user_id"`
}

// UpdateProfileRequest carries a partial profile update; nil fields
// are left untouched
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

type ResetLikesRequest struct {
	Confirm bool `json:"confirm"`
}

type CreateInvitationRequest struct {
	Email       string `json:"email"`
	ExpiresDays int    `json:"expires_days"`
}

type BulkInvitationsRequest struct {
	Count       int      `json:"count"`
	Emails      []string `json:"emails"`
	ExpiresDays int      `json:"expires_days"`
}

// Response types

type AuthResponse struct {
	User        UserProfile `json:"user"`
	AccessToken string      `json:"access"`
	Message     string      `json:"message"`
}

type ToggleLikeResponse struct {
	Action           string `json:"action"` // "added" or "removed"
	Message          string `json:"message"`
	RemainingLikes   int    `json:"remaining_likes"`
	TargetLikesCount int    `json:"target_likes_count"`
}

type DeleteLikeResponse struct {
	Message        string `json:"message"`
	RemainingLikes int    `json:"remaining_likes"`
}

type MarketersResponse struct {
	Results        []UserProfile `json:"results"`
	TotalMarketers int           `json:"total_marketers"`
	UserStats      StatsSummary  `json:"user_stats"`
}

type MyLikesResponse struct {
	Likes     []LikeDetail `json:"likes"`
	Total     int          `json:"total"`
	Remaining int          `json:"remaining"`
}

type RankingResponse struct {
	Ranking     []RankingEntry `json:"ranking"`
	TotalRanked int            `json:"total_ranked"`
}

type ValidateInvitationResponse struct {
	Valid   bool    `json:"valid"`
	Message string  `json:"message"`
	Email   *string `json:"email"`
}

type InvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
	Count       int          `json:"count"`
	Message     string       `json:"message"`
}

type ResetLikesResponse struct {
	Message      string `json:"message"`
	DeletedLikes int64  `json:"deleted_likes"`
}

type ActivityResponse struct {
	RecentReceived []ActivityEntry `json:"recent_received"`
	RecentGiven    []ActivityEntry `json:"recent_given"`
	RecentActivity []ActivityEntry `json:"recent_activity"`
}

type AdminStatsResponse struct {
	TotalUsers        int           `json:"total_users"`
	TotalLikes        int           `json:"total_likes"`
	TotalInvitations  int           `json:"total_invitations"`
	UsedInvitations   int           `json:"used_invitations"`
	UnusedInvitations int           `json:"unused_invitations"`
	MostActiveGivers  []UserProfile `json:"most_active_givers"`
	MostPopular       []UserProfile `json:"most_popular"`
}

type UserDetailResponse struct {
	User          UserProfile  `json:"user"`
	GivenLikes    []LikeDetail `json:"given_likes"`
	ReceivedLikes []LikeDetail `json:"received_likes"`
}

type SearchResponse struct {
	Results []UserProfile `json:"results"`
	Query   string        `json:"query"`
	Count   int           `json:"count"`
}

// Domain types

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       *string   `json:"bio,omitempty"`
	IsAdmin   bool      `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

type Like struct {
	ID        string    `json:"id"`
	GiverID   string    `json:"giver_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

type UserStats struct {
	UserID        string    `json:"user_id"`
	LikesReceived int       `json:"likes_received"`
	LikesGiven    int       `json:"likes_given"`
	Rank          *int      `json:"rank"`
	LastUpdated   time.Time `json:"last_updated"`
}

type Invitation struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Email     *string    `json:"email,omitempty"`
	Used      bool       `json:"used"`
	UsedBy    *string    `json:"used_by,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Projection types

type UserProfile struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	FullName       string  `json:"full_name"`
	Bio            *string `json:"bio,omitempty"`
	LikesReceived  int     `json:"likes_received"`
	LikesGiven     int     `json:"likes_given"`
	RemainingLikes int     `json:"remaining_likes"`
	Rank           *int    `json:"rank"`
}

type StatsSummary struct {
	LikesGiven     int `json:"likes_given"`
	LikesReceived  int `json:"likes_received"`
	RemainingLikes int `json:"remaining_likes"`
}

type UserStatsDetail struct {
	LikesGiven           int          `json:"likes_given"`
	LikesReceived        int          `json:"likes_received"`
	RemainingLikes       int          `json:"remaining_likes"`
	Rank                 *int         `json:"rank"`
	GivenLikesDetails    []LikeDetail `json:"given_likes_details"`
	ReceivedLikesDetails []LikeDetail `json:"received_likes_details"`
}

type LikeDetail struct {
	LikeID    string    `json:"like_id"`
	UserID    string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type RankingEntry struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	LikesCount int    `json:"likes_count"`
	Rank       int    `json:"rank"`
}

type ActivityEntry struct {
	LikeID    string        `json:"id"`
	From      *ActivityUser `json:"from,omitempty"`
	To        *ActivityUser `json:"to,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	TimeAgo   string        `json:"time_ago"`
}

type ActivityUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
