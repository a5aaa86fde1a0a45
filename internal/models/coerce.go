package models

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout 模板和封面统一的日期格式 DD/MM/YYYY
const DateLayout = "02/01/2006"

// CoerceString 把弱类型值转换成字符串
// 上游字段表来自JSON反序列化，数值可能是float64，统一在边界转换
func CoerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(DateLayout)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatDate 格式化日期，零值返回空串
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
