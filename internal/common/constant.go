package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on inbound requests ("Authorization: Bearer <token>").
const AccessTokenHeaderName = "Authorization"
