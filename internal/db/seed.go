package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cragmatch/cragmatch/internal/climber"
)

type seedProfile struct {
	email   string
	name    string
	age     int
	level   climber.Level
	styles  []climber.Style
	homeGym string
	bio     string
	intents []climber.Intent
	likes   map[climber.Mode][]string // by email, resolved after ids exist
}

// SeedTestData resets the users collection and inserts a demo roster of
// climbers with a few mutual likes so discovery, requests, and matches
// all have data on a fresh install. Every account's password is
// "password".
func SeedTestData(gdb *gorm.DB) error {
	if err := gdb.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	log.Println("Cleared existing data")

	profiles := []seedProfile{
		{
			email: "alex@example.com", name: "Alex Rivera", age: 28,
			level:   climber.LevelAdvanced,
			styles:  []climber.Style{climber.StyleSport, climber.StyleOutdoor},
			homeGym: "Red Rock Climbing Co.",
			bio:     "Weekend warrior obsessed with outdoor crags. Always up for road trips to test new routes!",
			intents: []climber.Intent{climber.IntentDate, climber.IntentPartner},
			likes: map[climber.Mode][]string{
				climber.ModeDating:  {"maya@example.com"},
				climber.ModePartner: {"jordan@example.com"},
			},
		},
		{
			email: "maya@example.com", name: "Maya Patel", age: 31,
			level:   climber.LevelAdvanced,
			styles:  []climber.Style{climber.StyleTrad, climber.StyleSport, climber.StyleOutdoor},
			homeGym: "Stone Summit",
			bio:     "Trad climbing enthusiast from Colorado. Love exploring new areas and meeting fellow climbers.",
			intents: []climber.Intent{climber.IntentDate},
			likes: map[climber.Mode][]string{
				climber.ModeDating: {"alex@example.com"},
			},
		},
		{
			email: "jordan@example.com", name: "Jordan Kim", age: 26,
			level:   climber.LevelIntermediate,
			styles:  []climber.Style{climber.StyleBouldering, climber.StyleGym},
			homeGym: "The Crux",
			bio:     "Boulderer chasing my first V7. Looking for a regular session partner.",
			intents: []climber.Intent{climber.IntentPartner},
			likes: map[climber.Mode][]string{
				climber.ModePartner: {"alex@example.com", "sam@example.com"},
			},
		},
		{
			email: "sam@example.com", name: "Sam Okafor", age: 34,
			level:   climber.LevelExpert,
			styles:  []climber.Style{climber.StyleSport, climber.StyleTrad},
			homeGym: "Vertical World",
			bio:     "Route setter by day, weekend alpinist. Happy to belay beginners.",
			intents: []climber.Intent{climber.IntentDate, climber.IntentPartner},
		},
		{
			email: "lena@example.com", name: "Lena Fischer", age: 23,
			level:   climber.LevelBeginner,
			styles:  []climber.Style{climber.StyleGym},
			homeGym: "Boulderwelt",
			bio:     "New to climbing and hooked after one session. Show me your projects!",
			intents: []climber.Intent{climber.IntentDate},
		},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	idsByEmail := make(map[string]string, len(profiles))
	for _, p := range profiles {
		idsByEmail[p.email] = uuid.NewString()
	}

	for _, p := range profiles {
		user := User{
			ID:           idsByEmail[p.email],
			Email:        p.email,
			PasswordHash: string(hash),
			Name:         p.name,
			Age:          p.age,
			Grade:        encodeColumn(climber.Grade{Level: p.level}),
			Styles:       encodeColumn(p.styles),
			HomeGym:      p.homeGym,
			Bio:          p.bio,
			Avatar:       "avatar.jpg",
			Intent:       encodeColumn(p.intents),
			LikedDating:  encodeColumn(resolveLikes(p.likes[climber.ModeDating], idsByEmail)),
			LikedPartner: encodeColumn(resolveLikes(p.likes[climber.ModePartner], idsByEmail)),
		}
		if err := gdb.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", p.email, err)
		}
	}
	log.Printf("Seeded %d users.", len(profiles))

	return nil
}

func resolveLikes(emails []string, idsByEmail map[string]string) []string {
	ids := make([]string, 0, len(emails))
	for _, e := range emails {
		if id, ok := idsByEmail[e]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
