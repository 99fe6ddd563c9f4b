package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UserIDKey 是认证中间件写入Gin上下文的键，
// 值为从令牌中提取并验证过的用户UUID。
const UserIDKey = "userID"

// secretKey 是一个全局变量，用于存储服务器在启动时生成的32字节密钥。
// 密钥只存在于内存中，服务重启后所有已签发的令牌自动失效。
var secretKey []byte

// ErrInvalidToken 表示令牌格式错误、签名不匹配或已被篡改。
var ErrInvalidToken = errors.New("无效的令牌")

// ErrExpiredToken 表示令牌本身有效，但已超过有效期。
var ErrExpiredToken = errors.New("令牌已过期")

// Payload 定义了登录令牌中被签名的数据结构。
// 它会被序列化后嵌入Bearer令牌，由客户端在每个请求中原样带回。
type Payload struct {
	UserUUID  string `json:"u"`
	ExpiresAt int64  `json:"e"`
}

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已成功生成。")
}

// sign 使用HMAC-SHA256和密钥对已序列化的payload进行签名。
func sign(payloadBytes []byte) []byte {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	return mac.Sum(nil)
}

// Generate 为指定用户签发一个带有效期的Bearer令牌。
// 令牌格式为 base64url(payload) + "." + base64url(signature)。
func Generate(userUUID string, ttl time.Duration) (string, error) {
	payload := Payload{
		UserUUID:  userUUID,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化Token payload")
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	encodedSignature := base64.RawURLEncoding.EncodeToString(sign(payloadBytes))
	return encodedPayload + "." + encodedSignature, nil
}

// Validate 验证一个令牌的完整性和有效期，返回其中的用户UUID。
func Validate(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}
	actualSignature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidToken
	}

	// 使用 hmac.Equal 进行安全的、时间恒定的比较，防止时序攻击
	if !hmac.Equal(sign(payloadBytes), actualSignature) {
		return "", ErrInvalidToken
	}

	var payload Payload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return "", ErrInvalidToken
	}

	if time.Now().Unix() >= payload.ExpiresAt {
		return "", ErrExpiredToken
	}

	return payload.UserUUID, nil
}
