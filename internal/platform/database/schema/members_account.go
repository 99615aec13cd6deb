// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

// Package schema centralizes table and column names for the members schema.
//
// Repositories reference these definitions instead of repeating raw strings,
// so a column rename is a one-file change.
package schema

// MemberAccountTable represents the 'members.account' table
type MemberAccountTable struct {
	Table              string
	ID                 string
	Email              string
	Name               string
	Slug               string
	Description        string
	EncryptedPassword  string
	RememberToken      string
	RememberTokenAt    string
	Admin              string
	Deactivated        string
	EmailVerified      string
	ForumCommentCount  string
	BlogCommentCount   string
	WallCommentCount   string
	LastLoggedInAt     string
	CreatedAt          string
	UpdatedAt          string
}

// MemberAccount is the schema definition for members.account
var MemberAccount = MemberAccountTable{
	Table:              "members.account",
	ID:                 "id",
	Email:              "email",
	Name:               "name",
	Slug:               "slug",
	Description:        "description",
	EncryptedPassword:  "encryptedpassword",
	RememberToken:      "remembertoken",
	RememberTokenAt:    "remembertokenexpiresat",
	Admin:              "admin",
	Deactivated:        "deactivated",
	EmailVerified:      "emailverified",
	ForumCommentCount:  "forumcommentcount",
	BlogCommentCount:   "blogcommentcount",
	WallCommentCount:   "wallcommentcount",
	LastLoggedInAt:     "lastloggedinat",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}

// Columns returns all standard column names
func (t MemberAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Name, t.Slug, t.Description, t.EncryptedPassword,
		t.RememberToken, t.RememberTokenAt, t.Admin, t.Deactivated,
		t.EmailVerified, t.ForumCommentCount, t.BlogCommentCount,
		t.WallCommentCount, t.LastLoggedInAt, t.CreatedAt, t.UpdatedAt,
	}
}
