package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Description     string             `json:"description" bson:"description"`
	ManagedBy       Member             `json:"managedBy" bson:"managed_by"`
	Members         []Member           `json:"members" bson:"members"`
	CaseStudy       *VersionedDocument `json:"caseStudy,omitempty" bson:"case_study,omitempty"`
	ProjectStatutes *Statutes          `json:"projectStatutes,omitempty" bson:"project_statutes,omitempty"`
	RAMMatrix       [][]string         `json:"ramMatrix,omitempty" bson:"ram_matrix,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
}

// VersionedDocument is the case study: free-form content guarded by a
// strictly increasing semantic version.
type VersionedDocument struct {
	Content      string    `json:"content" bson:"content"`
	Version      string    `json:"version" bson:"version"`
	LastModified time.Time `json:"lastModified" bson:"last_modified"`
	ModifiedBy   string    `json:"modifiedBy" bson:"modified_by"`
}

type Statutes struct {
	Sections     []StatuteSection `json:"sections" bson:"sections"`
	Version      string           `json:"version" bson:"version"`
	LastModified time.Time        `json:"lastModified" bson:"last_modified"`
	ModifiedBy   string           `json:"modifiedBy" bson:"modified_by"`
}

type StatuteSection struct {
	Title   string `json:"title" bson:"title"`
	Content string `json:"content" bson:"content"`
}

// EffectiveMembers is the member list as presented to clients: the manager
// first, then the stored members, deduplicated by id. Stored membership
// never contains the manager; every call site that needs the merged view
// must go through here so the ordering stays consistent.
func EffectiveMembers(p Project) []Member {
	members := make([]Member, 0, len(p.Members)+1)
	members = append(members, p.ManagedBy)

	seen := map[primitive.ObjectID]bool{p.ManagedBy.ID: true}
	for _, m := range p.Members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		members = append(members, m)
	}
	return members
}
