package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// HashTestSuite API Key哈希测试套件
type HashTestSuite struct {
	suite.Suite
}

// 测试哈希格式
func (suite *HashTestSuite) TestHashAPIKey() {
	key := "crusade-secret-key"

	hash, err := HashAPIKey(key)
	suite.NoError(err)
	suite.NotEqual(key, hash)
	suite.True(strings.HasPrefix(hash, "$argon2id$"))
}

// 测试相同key生成不同哈希
func (suite *HashTestSuite) TestHashUniqueness() {
	hash1, err1 := HashAPIKey("same")
	hash2, err2 := HashAPIKey("same")

	suite.NoError(err1)
	suite.NoError(err2)
	suite.NotEqual(hash1, hash2)
}

// 测试校验
func (suite *HashTestSuite) TestVerifyAPIKey() {
	hash, err := HashAPIKey("CorrectKey456")
	suite.Require().NoError(err)

	ok, err := VerifyAPIKey("CorrectKey456", hash)
	suite.NoError(err)
	suite.True(ok)

	ok, err = VerifyAPIKey("correctkey456", hash)
	suite.NoError(err)
	suite.False(ok)
}

// 测试错误的哈希格式
func (suite *HashTestSuite) TestVerifyInvalidHash() {
	_, err := VerifyAPIKey("key", "plain-text")
	suite.Error(err)

	_, err = VerifyAPIKey("key", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	suite.Error(err)

	_, err = VerifyAPIKey("key", "$argon2id$v=1$m=1,t=1,p=1$c2FsdA$aGFzaA")
	suite.Error(err)
}

// 测试生成随机key
func (suite *HashTestSuite) TestGenerateAPIKey() {
	key1, err := GenerateAPIKey()
	suite.NoError(err)
	suite.Len(key1, 40)

	key2, err := GenerateAPIKey()
	suite.NoError(err)
	suite.NotEqual(key1, key2)
}

func TestHashTestSuite(t *testing.T) {
	suite.Run(t, new(HashTestSuite))
}
