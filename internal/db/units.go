package db

// WaterUnit 表示饮水量的计量单位，内部存储一律使用毫升。
type WaterUnit string

const (
	UnitMilliliters WaterUnit = "ml"
	UnitOunces      WaterUnit = "oz"
)

// ouncePerML 取 mlPerOunce 的精确倒数（约 0.033814），
// 保证往返换算互为逆运算。
const (
	mlPerOunce = 29.5735
	ouncePerML = 1 / mlPerOunce
)

// Valid 判断单位是否受支持。
func (u WaterUnit) Valid() bool {
	return u == UnitMilliliters || u == UnitOunces
}

// Convert 在毫升与盎司之间换算，单位相同则原样返回。
// 往返换算的相对误差小于 1e-6。
func Convert(amount float64, from, to WaterUnit) float64 {
	if from == to {
		return amount
	}

	switch {
	case from == UnitMilliliters && to == UnitOunces:
		return amount * ouncePerML
	case from == UnitOunces && to == UnitMilliliters:
		return amount * mlPerOunce
	default:
		return amount
	}
}

// ContainerType 表示记录饮水时使用的容器类别。
type ContainerType string

const (
	ContainerGlass  ContainerType = "glass"
	ContainerBottle ContainerType = "bottle"
	ContainerCup    ContainerType = "cup"
	ContainerMug    ContainerType = "mug"
	ContainerCustom ContainerType = "custom"
)

// Valid 判断容器类别是否受支持。
func (c ContainerType) Valid() bool {
	switch c {
	case ContainerGlass, ContainerBottle, ContainerCup, ContainerMug, ContainerCustom:
		return true
	}
	return false
}

// DefaultAmount 返回容器的默认容量（毫升）。custom 没有默认容量，
// 调用方必须显式提供数值。
func (c ContainerType) DefaultAmount() float64 {
	switch c {
	case ContainerGlass:
		return 250
	case ContainerBottle:
		return 500
	case ContainerCup:
		return 200
	case ContainerMug:
		return 300
	default:
		return 0
	}
}

// 快捷添加档位，毫升档位直接存储，盎司档位换算成毫升后存储。
var (
	quickAddAmountsML = []float64{100, 250, 500, 750, 1000}
	quickAddAmountsOZ = []float64{4, 8, 12, 16, 20}
)

// QuickAddAmounts 返回指定单位制下的快捷添加档位，数值为规范毫升值。
func QuickAddAmounts(unit WaterUnit) []float64 {
	if unit == UnitOunces {
		amounts := make([]float64, 0, len(quickAddAmountsOZ))
		for _, oz := range quickAddAmountsOZ {
			amounts = append(amounts, Convert(oz, UnitOunces, UnitMilliliters))
		}
		return amounts
	}
	return append([]float64(nil), quickAddAmountsML...)
}

// QuickAddDisplayAmounts 返回界面展示用的档位数值（按所选单位计）。
func QuickAddDisplayAmounts(unit WaterUnit) []float64 {
	if unit == UnitOunces {
		return append([]float64(nil), quickAddAmountsOZ...)
	}
	return append([]float64(nil), quickAddAmountsML...)
}
