package grid

// User-facing cell messages. The UI layer shows these verbatim, so they
// stay in the operators' language.
const (
	msgCargoUnknown   = "货号未登记"
	msgCargoStopped   = "货号已停用"
	msgColorUnknown   = "颜色不存在"
	msgSizerUnknown   = "尺码不存在"
	msgSubjectUnknown = "科目未登记"
	msgKeyDuplicated  = "关键字重复"
	msgKeyLocked      = "关键字不可修改"
	msgTooLong        = "内容过长"
	msgBadDate        = "日期格式错误"
	msgBadNumber      = "数字格式错误"
	msgBarcodeNoMatch = "条码无法识别"
	msgSizeLeftover   = "含未登记尺码: "
	msgMixSizeName    = "均码"
)
