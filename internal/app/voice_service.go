package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService mints Vivox access tokens so participants of a table can
// join the per-match voice room. Token format follows the Vivox access
// token guide: HS256 over iss/exp/vxa/vxi/f/t claims.
type VoiceService struct {
	secret string
	issuer string
	domain string
}

const (
	VoiceTokenActionLogin = "login"
	VoiceTokenActionJoin  = "join"
)

// NewVoiceService constructs a VoiceService with the Vivox credentials.
func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret: secret,
		issuer: issuer,
		domain: domain,
	}
}

// GenerateToken signs an access token for the given user and action. Join
// tokens target a table voice room derived from game and match id.
func (s *VoiceService) GenerateToken(user, action, game, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, game, matchID, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(time.Hour * 1).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// RoomName derives the voice room name for a match of the given game.
func RoomName(game, matchID string) string {
	return game + "-" + matchID
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) roomURI(game, matchID string) string {
	return "sip:confctl-g-" + RoomName(game, matchID) + "@" + s.domain
}

func (s *VoiceService) targetURI(action, game, matchID, userURI string) (string, error) {
	switch action {
	case VoiceTokenActionLogin:
		return userURI, nil
	case VoiceTokenActionJoin:
		if game == "" || matchID == "" {
			return "", fmt.Errorf("game and match id are required for join tokens")
		}
		return s.roomURI(game, matchID), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}
