package service

import (
	"sort"
	"strings"

	"github.com/wfunc/last-crusade/internal/database"
	apperrors "github.com/wfunc/last-crusade/internal/errors"
)

// field 待校验的数值字段
type field struct {
	name  string
	value int64
}

// validateNonNegative 数值字段不能为负
func validateNonNegative(fields ...field) error {
	for _, f := range fields {
		if f.value < 0 {
			return apperrors.Newf(apperrors.ErrInvalidParam, "%s 不能为负数", f.name)
		}
	}
	return nil
}

// validateName 名称不能为空
func validateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Newf(apperrors.ErrInvalidParam, "%s不能为空", kind)
	}
	return nil
}

// translateCreateError 唯一约束冲突转换为重名失败
func translateCreateError(err error, kind, name string) error {
	if err == nil {
		return nil
	}
	if database.IsDuplicateKey(err) {
		return apperrors.Newf(apperrors.ErrDuplicateName, "%s %q 在该世界中已存在", kind, name)
	}
	return apperrors.Wrap(err, apperrors.ErrDatabaseInsert)
}

// uniqueNames 去除空白与重复，保持原顺序
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// missingNames 返回want中未出现在have里的名称，按字母排序
func missingNames(want []string, have map[string]struct{}) []string {
	var missing []string
	for _, n := range want {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	return missing
}
