// Package jwt provides RS256 JSON Web Token signing and validation.
//
// Tokens carry the acting identity (user id, email, display name,
// photo) so downstream handlers never need a user lookup to attribute
// an action.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/jwt_private.pem",
//	    PublicKeyPath:  "keys/jwt_public.pem",
//	    Issuer:         "nextdink-api",
//	    ExpirationMins: 1440,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: userID, Email: email})
//
// # Token Validation
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//
// Validation-only deployments may configure just the public key.
package jwt
