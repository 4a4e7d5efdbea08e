package database

import (
	_ "embed"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"runclub-api/models"
)

// SeedPassword is the shared password of every seeded account.
const SeedPassword = "password"

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Users []struct {
		ID            string   `yaml:"id"`
		Name          string   `yaml:"name"`
		Email         string   `yaml:"email"`
		Avatar        string   `yaml:"avatar"`
		Role          string   `yaml:"role"`
		TotalRuns     int      `yaml:"total_runs"`
		TotalDistance float64  `yaml:"total_distance"`
		AvgPace       string   `yaml:"avg_pace"`
		Badges        []string `yaml:"badges"`
		JoinedAgo     string   `yaml:"joined_ago"`
	} `yaml:"users"`
	Runs []struct {
		ID              string   `yaml:"id"`
		Title           string   `yaml:"title"`
		Description     string   `yaml:"description"`
		Distance        float64  `yaml:"distance"`
		Difficulty      string   `yaml:"difficulty"`
		Pace            string   `yaml:"pace"`
		Location        string   `yaml:"location"`
		StartsIn        string   `yaml:"starts_in"`
		MaxParticipants int      `yaml:"max_participants"`
		Participants    []string `yaml:"participants"`
		CreatedBy       string   `yaml:"created_by"`
		Image           string   `yaml:"image"`
	} `yaml:"runs"`
	Posts []struct {
		ID      string `yaml:"id"`
		UserID  string `yaml:"user_id"`
		Content string `yaml:"content"`
		Image   string `yaml:"image"`
		Likes   int    `yaml:"likes"`
		Ago     string `yaml:"ago"`
	} `yaml:"posts"`
	Comments []struct {
		ID      string `yaml:"id"`
		PostID  string `yaml:"post_id"`
		UserID  string `yaml:"user_id"`
		Content string `yaml:"content"`
		Ago     string `yaml:"ago"`
	} `yaml:"comments"`
	Tips []struct {
		ID       string `yaml:"id"`
		Title    string `yaml:"title"`
		Category string `yaml:"category"`
		Content  string `yaml:"content"`
		Image    string `yaml:"image"`
		ReadTime string `yaml:"read_time"`
	} `yaml:"tips"`
}

func parseOffset(now time.Time, value string, sign time.Duration) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad offset %q: %w", value, err)
	}
	return now.Add(sign * d), nil
}

// SeedData populates an empty database. Run times are relative to now so the
// schedule is always upcoming after a restart.
func SeedData(db *gorm.DB, bcryptCost int, now time.Time) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	var seed seedFile
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range seed.Users {
			joinedAt, err := parseOffset(now, u.JoinedAgo, -1)
			if err != nil {
				return err
			}
			user := models.User{
				ID:            u.ID,
				Name:          u.Name,
				Email:         u.Email,
				Password:      string(hash),
				Avatar:        u.Avatar,
				Role:          models.Role(u.Role),
				TotalRuns:     u.TotalRuns,
				TotalDistance: u.TotalDistance,
				AvgPace:       u.AvgPace,
				Badges:        models.StringSlice(u.Badges).Dedup(),
				JoinedAt:      joinedAt,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		for _, r := range seed.Runs {
			scheduledAt, err := parseOffset(now, r.StartsIn, 1)
			if err != nil {
				return err
			}
			run := models.Run{
				ID:              r.ID,
				Title:           r.Title,
				Description:     r.Description,
				Distance:        r.Distance,
				Difficulty:      models.Difficulty(r.Difficulty),
				Pace:            r.Pace,
				Location:        r.Location,
				ScheduledAt:     scheduledAt,
				MaxParticipants: r.MaxParticipants,
				Participants:    models.StringSlice(r.Participants).Dedup(),
				Image:           r.Image,
			}
			if r.CreatedBy != "" {
				createdBy := r.CreatedBy
				run.CreatedBy = &createdBy
			}
			if err := tx.Create(&run).Error; err != nil {
				return fmt.Errorf("seed run %s: %w", r.Title, err)
			}
		}

		commentCounts := make(map[string]int)
		for _, c := range seed.Comments {
			commentCounts[c.PostID]++
		}

		for _, p := range seed.Posts {
			createdAt, err := parseOffset(now, p.Ago, -1)
			if err != nil {
				return err
			}
			post := models.Post{
				ID:        p.ID,
				UserID:    p.UserID,
				Content:   p.Content,
				Likes:     p.Likes,
				Comments:  commentCounts[p.ID],
				CreatedAt: createdAt,
			}
			if p.Image != "" {
				image := p.Image
				post.Image = &image
			}
			if err := tx.Create(&post).Error; err != nil {
				return fmt.Errorf("seed post %s: %w", p.ID, err)
			}
		}

		for _, c := range seed.Comments {
			createdAt, err := parseOffset(now, c.Ago, -1)
			if err != nil {
				return err
			}
			comment := models.Comment{
				ID:        c.ID,
				PostID:    c.PostID,
				UserID:    c.UserID,
				Content:   c.Content,
				CreatedAt: createdAt,
			}
			if err := tx.Create(&comment).Error; err != nil {
				return fmt.Errorf("seed comment %s: %w", c.ID, err)
			}
		}

		for _, t := range seed.Tips {
			tip := models.Tip{
				ID:       t.ID,
				Title:    t.Title,
				Category: models.TipCategory(t.Category),
				Content:  t.Content,
				Image:    t.Image,
				ReadTime: t.ReadTime,
			}
			if err := tx.Create(&tip).Error; err != nil {
				return fmt.Errorf("seed tip %s: %w", t.Title, err)
			}
		}
		return nil
	})
}
