package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolder_Count(t *testing.T) {
	folder := &Folder{
		Name:      "Development",
		Bookmarks: []PlacedBookmark{{ID: "1"}, {ID: "2"}},
		Children: []*Folder{
			{Name: "Frontend", Bookmarks: []PlacedBookmark{{ID: "3"}}},
			{Name: "Backend", Children: []*Folder{
				{Name: "Go", Bookmarks: []PlacedBookmark{{ID: "4"}}},
			}},
		},
	}

	assert.Equal(t, 4, folder.Count())
	assert.Equal(t, 0, (&Folder{Name: "Empty"}).Count())
}

func TestOrganizationPlan_Categorized(t *testing.T) {
	plan := &OrganizationPlan{
		Folders: []*Folder{
			{Name: "A", Bookmarks: []PlacedBookmark{{ID: "1"}}},
			{Name: "B", Children: []*Folder{
				{Name: "C", Bookmarks: []PlacedBookmark{{ID: "2"}, {ID: "3"}}},
			}},
		},
	}

	assert.Equal(t, 3, plan.Categorized())
	assert.Equal(t, 0, (&OrganizationPlan{}).Categorized())
}
