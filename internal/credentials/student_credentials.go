package credentials

import (
	"crypto/rand"
	"math/big"
)

// avatarColors is the palette assigned to new student profiles
var avatarColors = []string{
	"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71", "#1abc9c",
	"#3498db", "#9b59b6", "#e84393", "#16a085", "#d35400",
}

// tempPasswordChars deliberately omits look-alikes (0/O, 1/l/I)
const tempPasswordChars = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomAvatarColor picks a random color from the avatar palette
func RandomAvatarColor() (string, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(avatarColors))))
	if err != nil {
		return "", err
	}
	return avatarColors[num.Int64()], nil
}

// GenerateTempPassword generates a random 10-character starter password
// for admin-created student accounts. Long enough to pass the password
// validation rules, so the student can sign in before changing it.
func GenerateTempPassword() (string, error) {
	password := make([]byte, 10)
	for i := range password {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordChars))))
		if err != nil {
			return "", err
		}
		password[i] = tempPasswordChars[num.Int64()]
	}
	return string(password), nil
}
