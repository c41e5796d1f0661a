package models

import "time"

type AnnouncementType string

const (
	AnnouncementInfo    AnnouncementType = "info"
	AnnouncementSuccess AnnouncementType = "success"
	AnnouncementWarning AnnouncementType = "warning"
)

func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementInfo, AnnouncementSuccess, AnnouncementWarning:
		return true
	}
	return false
}

// Announcement is a site-wide notice managed by admins. CreatedBy is nil
// once the author account has been deleted; CreatedByUsername is filled in
// by queries that join the author.
type Announcement struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Content           string           `json:"content"`
	Type              AnnouncementType `json:"type"`
	IsActive          bool             `json:"isActive"`
	CreatedBy         *int64           `json:"-"`
	CreatedByUsername string           `json:"createdBy,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}
