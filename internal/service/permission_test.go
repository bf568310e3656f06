package service

import (
	"testing"

	"storeit/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	owner := &model.User{ID: "owner-id", Email: "owner@x.com"}
	sharee := &model.User{ID: "sharee-id", Email: "sharee@x.com"}
	file := &model.File{ID: "f1", OwnerID: "owner-id", SharedWith: []string{"sharee@x.com"}}

	tests := []struct {
		name   string
		action string
		user   *model.User
		want   bool
	}{
		{"owner can rename", ActionRename, owner, true},
		{"owner can share", ActionShare, owner, true},
		{"owner can delete", ActionDelete, owner, true},
		{"sharee cannot rename", ActionRename, sharee, false},
		{"sharee cannot share", ActionShare, sharee, false},
		{"sharee cannot delete", ActionDelete, sharee, false},
		{"sharee can download", ActionDownload, sharee, true},
		{"sharee can view details", ActionDetails, sharee, true},
		{"unknown action is open", "preview", sharee, true},
		{"nil user cannot delete", ActionDelete, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.action, tt.user, file))
		})
	}
}
