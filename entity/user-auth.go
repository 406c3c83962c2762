package entity

// UserAuth identifies an authenticated API caller.
type UserAuth struct {
	Username string `json:"username" bson:"username"`
	Key      string `json:"key" bson:"key"`
}
