// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSignInValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  SignIn
		fields map[string]string
	}{
		{"valid", SignIn{Email: "a@b.com", Password: "secret1"}, nil},
		{"short password", SignIn{Email: "a@b.com", Password: "short"}, map[string]string{"password": MsgPasswordShort}},
		{"missing email", SignIn{Password: "secret1"}, map[string]string{"email": MsgRequired}},
		{"bad email", SignIn{Email: "a@b", Password: "secret1"}, map[string]string{"email": MsgEmailInvalid}},
		{"empty", SignIn{}, map[string]string{"email": MsgRequired, "password": MsgRequired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.input.Validate()
			if len(errs) != len(tt.fields) {
				t.Fatalf("Validate() = %v, want %v", errs, tt.fields)
			}
			for field, msg := range tt.fields {
				if errs.Get(field) != msg {
					t.Errorf("errs[%q] = %q, want %q", field, errs.Get(field), msg)
				}
			}
		})
	}
}

func TestRegistrationValidate(t *testing.T) {
	valid := Registration{Name: "Ali", Email: "ali@mail.uz", Password: "secret1", ConfirmPassword: "secret1"}
	if errs := valid.Validate(); !errs.Empty() {
		t.Errorf("valid registration rejected: %v", errs)
	}

	short := valid
	short.Name = "A"
	if got := short.Validate().Get("name"); got != MsgNameShort {
		t.Errorf("name error = %q, want %q", got, MsgNameShort)
	}

	mismatch := valid
	mismatch.ConfirmPassword = "other12"
	if got := mismatch.Validate().Get("confirmPassword"); got != MsgPasswordMismatch {
		t.Errorf("confirm error = %q, want %q", got, MsgPasswordMismatch)
	}
}

func TestRegistrationJSON_OmitsConfirmation(t *testing.T) {
	b, err := json.Marshal(Registration{Name: "Ali", Email: "a@b.uz", Password: "p", ConfirmPassword: "p"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(b), "onfirm") {
		t.Errorf("confirmation leaked into payload: %s", b)
	}
}

func TestProfileUpdateValidate(t *testing.T) {
	tests := []struct {
		name  string
		input ProfileUpdate
		want  string
	}{
		{"name only", ProfileUpdate{Name: "Ali"}, ""},
		{"good image", ProfileUpdate{Name: "Ali", HasNewImage: true, ImageType: "image/png", ImageSize: 1024}, ""},
		{"not image", ProfileUpdate{Name: "Ali", HasNewImage: true, ImageType: "application/pdf", ImageSize: 10}, MsgImageType},
		{"too large", ProfileUpdate{Name: "Ali", HasNewImage: true, ImageType: "image/jpeg", ImageSize: MaxImageBytes + 1}, MsgImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Validate().Get("profilePicture"); got != tt.want {
				t.Errorf("profilePicture error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserRefUnmarshal(t *testing.T) {
	var refs []UserRef
	if err := json.Unmarshal([]byte(`["u1", {"_id":"u2","name":"Dilnoza"}, null]`), &refs); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if refs[0].ID != "u1" || refs[1].ID != "u2" || refs[1].Name != "Dilnoza" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestUserInitial(t *testing.T) {
	tests := map[string]string{"ali": "A", "  şahzoda": "Ş", "": "?"}
	for name, want := range tests {
		u := &User{Name: name}
		if got := u.Initial(); got != want {
			t.Errorf("Initial(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestNumberUnmarshal(t *testing.T) {
	var c struct {
		Price   Number `json:"price"`
		Lessons Number `json:"lessons"`
		Empty   Number `json:"empty"`
	}
	if err := json.Unmarshal([]byte(`{"price":"699,000","lessons":36,"empty":""}`), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.Price != 699000 || c.Lessons != 36 || c.Empty != 0 {
		t.Errorf("got %+v", c)
	}

	if err := json.Unmarshal([]byte(`{"price":"abc"}`), &c); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestCourseDefaultsAndValidate(t *testing.T) {
	c := NewCourse()
	if c.Status != CourseStatusDraft {
		t.Errorf("Status = %q, want draft", c.Status)
	}
	if len(c.Features) != 1 || len(c.Outcomes) != 1 {
		t.Errorf("expected one blank feature and outcome row")
	}
	if !c.Validate().Has("title") {
		t.Error("missing title should fail validation")
	}

	c.Title = "TOPIK II"
	c.Status = "deleted"
	if got := c.Validate().Get("status"); got != MsgStatusInvalid {
		t.Errorf("status error = %q", got)
	}
}

func TestCoursePayload_DropsBlankRows(t *testing.T) {
	c := Course{Features: []string{"", " Grammar ", ""}, Outcomes: []string{""}}
	p := c.Payload()
	if len(p.Features) != 1 || p.Features[0] != "Grammar" {
		t.Errorf("Features = %q", p.Features)
	}
	if len(p.Outcomes) != 0 {
		t.Errorf("Outcomes = %q", p.Outcomes)
	}
	if len(c.Features) != 3 {
		t.Error("Payload must not modify the receiver's slices")
	}
}

func TestCourseRatingValidate(t *testing.T) {
	tests := []struct {
		rating CourseRating
		valid  bool
	}{
		{CourseRating{Rating: 5, Text: "Zo'r"}, true},
		{CourseRating{Rating: 0, Text: "x"}, false},
		{CourseRating{Rating: 6, Text: "x"}, false},
		{CourseRating{Rating: 3, Text: "   "}, false},
	}
	for _, tt := range tests {
		if got := tt.rating.Validate().Empty(); got != tt.valid {
			t.Errorf("Validate(%+v) valid = %v, want %v", tt.rating, got, tt.valid)
		}
	}
}

func TestBlogPostHelpers(t *testing.T) {
	p := BlogPost{Likes: []string{"u1"}, SavedBy: []string{"u2"}, Content: strings.Repeat("a", 1001)}
	if !p.LikedBy("u1") || p.LikedBy("u2") || p.LikedBy("") {
		t.Error("LikedBy mismatch")
	}
	if !p.SavedByUser("u2") || p.SavedByUser("u1") {
		t.Error("SavedByUser mismatch")
	}
	if got := p.ReadingMinutes(); got != 2 {
		t.Errorf("ReadingMinutes = %d, want 2", got)
	}
}

func TestBlogPostPayload(t *testing.T) {
	p := BlogPost{ID: "b1", Title: "T", Likes: []string{"u1"}, Tags: []string{"topik", ""}, Views: 9}
	b, _ := json.Marshal(p.Payload())
	s := string(b)
	for _, leaked := range []string{"likes", "_id", "createdAt", "author"} {
		if strings.Contains(s, `"`+leaked+`"`) {
			t.Errorf("payload contains %q: %s", leaked, s)
		}
	}
	if !strings.Contains(s, `"tags":["topik"]`) {
		t.Errorf("payload tags: %s", s)
	}
}

func TestBlogCommentUnmarshal(t *testing.T) {
	var p BlogPost
	err := json.Unmarshal([]byte(`{"_id":"b1","comments":["c1",{"_id":"c2","content":"hi","user":{"_id":"u1","name":"Ali"}}]}`), &p)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(p.Comments) != 2 || p.Comments[0].ID != "c1" || p.Comments[1].User.Name != "Ali" {
		t.Errorf("comments = %+v", p.Comments)
	}
}

func TestInquiryValidate(t *testing.T) {
	ok := Inquiry{Name: "Ali", Phone: "+998901234567", Type: InquiryTrial}
	if errs := ok.Validate(); !errs.Empty() {
		t.Errorf("valid inquiry rejected: %v", errs)
	}
	bad := Inquiry{Type: "spam"}
	errs := bad.Validate()
	for _, f := range []string{"name", "phone", "type"} {
		if !errs.Has(f) {
			t.Errorf("expected error on %s", f)
		}
	}
	if !ValidInquiryStatus(InquiryApproved) || ValidInquiryStatus("new") {
		t.Error("ValidInquiryStatus mismatch")
	}
}

func TestNoticeFromPost(t *testing.T) {
	n := NoticeFromPost(BlogPost{ID: "p1", Category: "Promotion", Tags: []string{"Pinned"}})
	if n.Type != NoticePromotion || !n.Pinned || n.Link != "/blog/p1" {
		t.Errorf("notice = %+v", n)
	}
	n = NoticeFromPost(BlogPost{ID: "p2", Category: "topik"})
	if n.Type != NoticeBlog || n.Pinned {
		t.Errorf("notice = %+v", n)
	}
}

func TestAboutNormalize(t *testing.T) {
	a := AboutContent{}.Normalize()
	if a.Stats == nil || a.Features == nil || a.Team == nil {
		t.Error("Normalize left nil lists")
	}
	b, _ := json.Marshal(a)
	if !strings.Contains(string(b), `"team":[]`) {
		t.Errorf("json = %s", b)
	}
}

func TestFieldErrorsError(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("b", "x")
	errs.Add("a", "y")
	errs.Add("a", "z")
	if got := errs.Error(); got != "a: y; b: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsEventLevel(t *testing.T) {
	for _, lvl := range EventLevels {
		if !IsEventLevel(lvl) {
			t.Errorf("IsEventLevel(%q) = false", lvl)
		}
	}
	for _, s := range []string{"", "debug", "INFO"} {
		if IsEventLevel(s) {
			t.Errorf("IsEventLevel(%q) = true", s)
		}
	}
}
