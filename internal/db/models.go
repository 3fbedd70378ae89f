package db

import (
	"encoding/json"
	"time"

	"github.com/cragmatch/cragmatch/internal/climber"
)

// User is the record-store row backing the users collection. List-valued
// fields are stored as JSON text so the API can serve them exactly as
// older clients wrote them.
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Name         string    `gorm:"size:128"`
	Age          int
	Grade        string    `gorm:"size:255"`
	Styles       string    `gorm:"column:climbing_styles;size:255"`
	HomeGym      string    `gorm:"size:128"`
	Bio          string    `gorm:"type:text"`
	Avatar       string    `gorm:"size:255"`
	Intent       string    `gorm:"size:64"`
	LikedDating  string    `gorm:"type:text"`
	LikedPartner string    `gorm:"type:text"`
	LikedUsers   string    `gorm:"type:text"` // legacy unified likes, read-only
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Record converts the row into the wire shape served by the API. The JSON
// text columns pass through the same tolerant decoding the clients use,
// so malformed stored values degrade to empty instead of erroring.
func (u *User) Record() climber.Climber {
	rec := climber.Climber{
		ID:      u.ID,
		Name:    u.Name,
		Age:     u.Age,
		HomeGym: u.HomeGym,
		Bio:     u.Bio,
		Email:   u.Email,
		Avatar:  u.Avatar,
	}
	decodeColumn(u.Grade, &rec.Grade)
	decodeColumn(u.Styles, &rec.Styles)
	decodeColumn(u.Intent, &rec.Intents)
	decodeColumn(u.LikedDating, &rec.LikedDating)
	decodeColumn(u.LikedPartner, &rec.LikedPartner)
	decodeColumn(u.LikedUsers, &rec.LikedUsers)
	return rec
}

// decodeColumn parses a stored JSON text column. A raw non-JSON string
// (e.g. a bare "advanced" grade written by an old client) is re-fed as a
// JSON string so the tolerant types can take their string-input path.
func decodeColumn(raw string, out json.Unmarshaler) {
	if raw == "" {
		return
	}
	data := []byte(raw)
	if !json.Valid(data) {
		quoted, err := json.Marshal(raw)
		if err != nil {
			return
		}
		data = quoted
	}
	_ = out.UnmarshalJSON(data)
}

// encodeColumn serializes a list or grade value for storage.
func encodeColumn(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
