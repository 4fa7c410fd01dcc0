package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// Skill list sides. Every skill row belongs to exactly one of these.
const (
	SkillSideOffered  = "offered"
	SkillSideLearning = "learning"
)
