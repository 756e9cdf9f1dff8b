package errors

var (
	// ErrInvalidPrivKey indicates that the given private key is invalid
	ErrInvalidPrivKey = New("Private key invalid")

	// ErrInvalidPubKey indicates the the given public key is invalid
	ErrInvalidPubKey = New("Public key invalid")

	// ErrFailedTokenCreation indicates JWT Token failed to create, reason unknown
	ErrFailedTokenCreation = New("Failed to create JWT Token")

	// ErrInvalidAuthHeader indicates invalid Authorization header
	ErrInvalidAuthHeader = New("Authorization header invalid")

	// ErrMissingToken indicates the jwt token is not present
	ErrMissingToken = New("Missing Access Token")

	// ErrInvalidSigningAlgorithm indicates signing algorithm is invalid, needs to be HS256, HS384, HS512, RS256, RS384 or RS512
	ErrInvalidSigningAlgorithm = New("Invalid signing algorithm")

	// ErrInvalidJWTToken indicates JWT token is invalid.
	ErrInvalidJWTToken = New("Invalid token")

	// ErrExpiredToken indicates JWT token has expired.
	ErrExpiredToken = New("Token has expired")

	// ErrMissingSessionData indicates session data missing while setting claim in JWT token.
	ErrMissingSessionData = New("Missing session data while creating token")

	// ErrMissingTesterID indicates tester_id claim missing in JWT token.
	ErrMissingTesterID = New("Missing tester_id in Token")

	// ErrMissingJTI indicates jti claim missing in JWT token.
	ErrMissingJTI = New("Missing jti in Token")

	// ErrMissingEmail indicates email claim missing in JWT token.
	ErrMissingEmail = New("Missing email in Token")

	// ErrMissingTesterType indicates tester_type_id claim missing in JWT token.
	ErrMissingTesterType = New("Missing tester_type_id in Token")

	// ErrMarshalJSON indicates the jwt claim payload could not be marshalled.
	ErrMarshalJSON = New("Failed to marshal JSON")

	// ErrUnMarshalJSON indicates the jwt claim payload could not be unmarshalled.
	ErrUnMarshalJSON = New("Failed to unmarshal JSON")
)
