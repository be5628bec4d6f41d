package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wfunc/last-crusade/internal/config"
	"github.com/wfunc/last-crusade/internal/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径")
		client     = flag.String("client", "", "为该客户端签发API令牌")
		hashKey    = flag.String("hash", "", "计算API Key的argon2id哈希，写入 security.api_key_hashes")
		generate   = flag.Bool("generate", false, "生成随机API Key并输出其哈希")
	)
	flag.Parse()

	switch {
	case *generate:
		key, err := utils.GenerateAPIKey()
		exitOnError(err)
		hash, err := utils.HashAPIKey(key)
		exitOnError(err)
		fmt.Printf("key:  %s\nhash: %s\n", key, hash)

	case *hashKey != "":
		hash, err := utils.HashAPIKey(*hashKey)
		exitOnError(err)
		fmt.Println(hash)

	case *client != "":
		exitOnError(config.Init(*configPath))
		jwtCfg := config.Get().Security.JWT
		tokens, err := utils.NewAPIKeyManager(jwtCfg.Secret, jwtCfg.Issuer, time.Duration(jwtCfg.ExpireHours)*time.Hour)
		exitOnError(err)
		if !tokens.Enabled() {
			exitOnError(fmt.Errorf("未配置 security.jwt.secret"))
		}
		token, err := tokens.Generate(*client)
		exitOnError(err)
		if tokens.Expiry() > 0 {
			fmt.Fprintf(os.Stderr, "有效期至: %s\n", time.Now().Add(tokens.Expiry()).Format(time.RFC3339))
		} else {
			fmt.Fprintln(os.Stderr, "令牌永不过期")
		}
		fmt.Println(token)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
