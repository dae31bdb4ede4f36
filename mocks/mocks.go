package mocks

//go:generate mockgen -package mocks -destination mock_device.go github.com/vkngwrapper/arsenal/rawimage Device,MemoryAllocator
