package model

// User 用户，同时作为会话快照写入 Session
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PartnerID    string `json:"partnerId,omitempty"`
	PartnerName  string `json:"partnerName,omitempty"`
	PartnerEmail string `json:"partnerEmail,omitempty"`
}

// HasPartner 是否已关联伴侣
func (u *User) HasPartner() bool {
	return u != nil && u.PartnerID != ""
}

// Partnership 伴侣关系，无序对，A < B
type Partnership struct {
	A string
	B string
}

// NewPartnership 规范化为无序对
func NewPartnership(x, y string) Partnership {
	if y < x {
		x, y = y, x
	}
	return Partnership{A: x, B: y}
}

// Other 返回关系中的另一方，id 不在关系中时返回空
func (p Partnership) Other(id string) string {
	switch id {
	case p.A:
		return p.B
	case p.B:
		return p.A
	}
	return ""
}
