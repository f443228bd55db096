package util

import (
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

func ReadConfig(filePath string, out interface{}) error {
	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // for nested structure
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	if err := v.Unmarshal(out); err != nil {
		return err
	}

	return nil
}

// 将页面中的相对链接补全为绝对链接
func ResolveURL(base string, ref string) (string, error) {
	bURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	rURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	rURL.Fragment = ""
	return bURL.ResolveReference(rURL).String(), nil
}

// 保持首次出现的顺序去重，空字符串被丢弃
func UniqueStrings(s []string) []string {
	var (
		seen = make(map[string]struct{}, len(s))
		out  = make([]string, 0, len(s))
	)
	for _, v := range s {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// string slice equal
func StringSliceEqual(s1 []string, s2 []string) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i, v := range s1 {
		if v != s2[i] {
			return false
		}
	}
	return true
}
