package user

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// hashPassword 使用bcrypt对明文密码进行哈希。
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("无法哈希密码: %w", err)
	}
	return string(hash), nil
}

// checkPassword 校验明文密码与bcrypt哈希是否匹配。
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
