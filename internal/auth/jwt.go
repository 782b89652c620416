package auth // package auth provides helper functions for token creation and verification

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Sentinel errors returned by VerifyAccessToken.  Handlers and middleware
// map both onto HTTP 401 but may use the distinction for logging or for the
// response message.
var (
    // ErrTokenExpired is returned when the token signature is valid but the
    // embedded expiry has passed.
    ErrTokenExpired = errors.New("token expired")
    // ErrTokenInvalid is returned when the token is malformed, signed with a
    // different secret or algorithm, or carries no usable subject claim.
    ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are short‑lived and encoded
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, and a TTL in minutes.  It returns an
// AccessToken structure containing the signed token and its expiration
// time.  The JWT carries only the standard claims: subject (sub),
// expiration (exp) and issued at (iat).  The role deliberately stays out of
// the token: authorization reads it from the user record at request time,
// so a role change takes effect without waiting out the token TTL.
func NewAccessToken(secret string, userID uint64, ttlMin int) (AccessToken, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    // Sign the token with the provided secret and obtain the string form.  If
    // signing fails, return the error and a zero AccessToken.
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a raw bearer token against the
// signing secret and returns the embedded user ID.  Expired tokens yield
// ErrTokenExpired; every other failure mode (bad signature, wrong
// algorithm, malformed payload, missing subject) yields ErrTokenInvalid.
// Rotating the secret therefore invalidates all outstanding tokens at once.
func VerifyAccessToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        // Return the secret bytes used to sign the token.
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return 0, ErrTokenExpired
        }
        return 0, ErrTokenInvalid
    }
    if !tok.Valid {
        return 0, ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrTokenInvalid
    }
    // JWT numeric values decode as float64; some issuers encode the subject
    // as a numeric string instead.  Accept both.
    switch sub := claims["sub"].(type) {
    case float64:
        if sub <= 0 {
            return 0, ErrTokenInvalid
        }
        return uint64(sub), nil
    case string:
        if parsed, err := strconv.ParseUint(sub, 10, 64); err == nil && parsed > 0 {
            return parsed, nil
        }
    }
    return 0, ErrTokenInvalid
}
